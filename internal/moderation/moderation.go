// Package moderation handles partner reports filed during a session:
// persisting them, adjusting the reported user's reputation, and applying
// escalating bans.
package moderation

import (
	"time"

	"vidmatch/backend/internal/config"
	"vidmatch/backend/internal/models"
	"vidmatch/backend/internal/storage"
)

// Service handles the business logic for reports.
type Service struct {
	Storage storage.Storage
}

// NewService creates a new moderation service.
func NewService(s storage.Storage) *Service {
	return &Service{Storage: s}
}

// reportWeight returns the reputation penalty for a report severity.
// Unrecognized severities fall back to the lightest penalty.
func reportWeight(severity string) int {
	if w, ok := config.ReportWeights[severity]; ok {
		return w
	}
	return config.ReportWeights["Low"]
}

// HandleReport persists a new report and, when the target is an
// authenticated user, applies the reputation penalty and ban checks.
// Reports against anonymous sessions are recorded and nothing more.
func (s *Service) HandleReport(report *models.Report) error {
	if err := s.Storage.SaveReport(report); err != nil {
		return err
	}
	if report.TargetUserID == "" {
		return nil
	}
	if err := s.Storage.UpdateUserReputation(report.TargetUserID, -reportWeight(report.Severity)); err != nil {
		return err
	}
	return s.CheckForBan(report.TargetUserID)
}

// CheckForBan bans a user whose reputation fell below the threshold or who
// collected too many reports inside the frequency window.
func (s *Service) CheckForBan(userID string) error {
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return err
	}

	// Threshold ban
	if user.ReputationScore < config.BanThresholdReputation {
		return s.applyBan(user)
	}

	// Frequency ban
	reports, err := s.Storage.GetReportsForUser(userID, time.Now().Add(-config.BanFrequencyWindow))
	if err != nil {
		return err
	}
	if len(reports) > config.BanThresholdFrequency {
		return s.applyBan(user)
	}

	return nil
}

// applyBan escalates the ban level based on how recently the user was last
// banned, flags the user row, and sets the Redis ban key with a TTL matching
// the ban duration.
func (s *Service) applyBan(user *models.User) error {
	level := 1
	if user.LastBanDate > 0 {
		if time.Since(time.Unix(user.LastBanDate, 0)) < 7*24*time.Hour {
			level = 2
		} else if time.Since(time.Unix(user.LastBanDate, 0)) < 30*24*time.Hour {
			level = 3
		}
	}

	duration := banDuration(level)
	user.IsBlocked = true
	user.BlockEndTime = time.Now().Add(duration).Unix()
	user.BlockLevel = level
	user.LastBanDate = time.Now().Unix()
	if err := s.Storage.UpdateUser(user); err != nil {
		return err
	}
	return s.Storage.SetBan(user.ID, duration)
}

// ConfirmReport marks a report as confirmed by an operator and rewards the
// reporter's reputation.
func (s *Service) ConfirmReport(reportID uint) error {
	report, err := s.Storage.GetReportByID(reportID)
	if err != nil {
		return err
	}
	report.Status = models.ReportStatusConfirmed
	if err := s.Storage.UpdateReport(report); err != nil {
		return err
	}
	if report.ReporterUserID == "" {
		return nil
	}
	return s.Storage.UpdateUserReputation(report.ReporterUserID, config.ConfirmedReportBonus)
}

func banDuration(level int) time.Duration {
	switch level {
	case 1:
		return config.BanLevel1Duration
	case 2:
		return config.BanLevel2Duration
	default:
		return config.BanLevel3Duration
	}
}
