package storage

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"vidmatch/backend/internal/config"
	"vidmatch/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when a user lookup finds no row.
var ErrUserNotFound = errors.New("storage: user not found")

// Storage is everything the hub, the moderation service and the HTTP handlers
// need from the persistence layer. Rooms, the waiting queue and relayed
// traffic are deliberately absent: they are ephemeral process state.
type Storage interface {
	SaveUser(user *models.User) error
	UpdateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUserReputation(userID string, delta int) error

	SaveReport(report *models.Report) error
	UpdateReport(report *models.Report) error
	GetReportByID(id uint) (*models.Report, error)
	GetReportsForUser(userID string, since time.Time) ([]models.Report, error)

	IsUserBanned(userID string) (bool, error)
	SetBan(userID string, d time.Duration) error
	ClearBan(userID string) error

	SetOnline(connID string) error
	SetOffline(connID string) error
	PublishStats(stats models.StatsSnapshot) error
}

// Redis keys.
const (
	banKeyPrefix = "ban:"
	onlineSetKey = "online_conns"
	statsHashKey = "stats:hub"
)

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveUser creates the user row, seeding the initial reputation.
func (s *Service) SaveUser(user *models.User) error {
	if user.ReputationScore == 0 {
		user.ReputationScore = config.InitialReputation
	}
	return s.DB.Create(user).Error
}

func (s *Service) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserReputation shifts the user's reputation by delta, clamped to the
// configured range on the database side.
func (s *Service) UpdateUserReputation(userID string, delta int) error {
	return s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("reputation_score", gorm.Expr(
			"LEAST(?, GREATEST(?, reputation_score + ?))",
			config.MaxReputation, config.MinReputation, delta,
		)).Error
}

func (s *Service) SaveReport(report *models.Report) error {
	if report.Status == "" {
		report.Status = models.ReportStatusNew
	}
	if err := s.DB.Create(report).Error; err != nil {
		log.Printf("ERROR: Failed to save report for room %s: %v", report.RoomID, err)
		return err
	}
	return nil
}

func (s *Service) UpdateReport(report *models.Report) error {
	return s.DB.Save(report).Error
}

func (s *Service) GetReportByID(id uint) (*models.Report, error) {
	var report models.Report
	if err := s.DB.First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// GetReportsForUser returns reports filed against the user since the given
// time, newest first.
func (s *Service) GetReportsForUser(userID string, since time.Time) ([]models.Report, error) {
	var reports []models.Report
	err := s.DB.Where("target_user_id = ? AND created_at > ?", userID, since).
		Order("created_at desc").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// IsUserBanned checks the ban flag in Redis.
func (s *Service) IsUserBanned(userID string) (bool, error) {
	status, err := s.Redis.Get(s.Ctx, banKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// SetBan flags the user as banned for the given duration. A non-positive
// duration bans without expiry.
func (s *Service) SetBan(userID string, d time.Duration) error {
	if d <= 0 {
		return s.Redis.Set(s.Ctx, banKeyPrefix+userID, "active", 0).Err()
	}
	return s.Redis.Set(s.Ctx, banKeyPrefix+userID, "active", d).Err()
}

func (s *Service) ClearBan(userID string) error {
	return s.Redis.Del(s.Ctx, banKeyPrefix+userID).Err()
}

// SetOnline adds the connection to the presence set.
func (s *Service) SetOnline(connID string) error {
	return s.Redis.SAdd(s.Ctx, onlineSetKey, connID).Err()
}

// SetOffline removes the connection from the presence set.
func (s *Service) SetOffline(connID string) error {
	return s.Redis.SRem(s.Ctx, onlineSetKey, connID).Err()
}

// PublishStats mirrors the hub counters into a Redis hash so external
// monitoring can read them without hitting the HTTP endpoint.
func (s *Service) PublishStats(stats models.StatsSnapshot) error {
	return s.Redis.HSet(s.Ctx, statsHashKey, map[string]interface{}{
		"connected_users": strconv.Itoa(stats.ConnectedUsers),
		"waiting_users":   strconv.Itoa(stats.WaitingUsers),
		"active_rooms":    strconv.Itoa(stats.ActiveRooms),
		"updated_at":      strconv.FormatInt(time.Now().Unix(), 10),
	}).Err()
}
