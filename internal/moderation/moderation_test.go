package moderation_test

import (
	"testing"
	"time"

	"vidmatch/backend/internal/config"
	"vidmatch/backend/internal/models"
	"vidmatch/backend/internal/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) UpdateUserReputation(userID string, delta int) error {
	args := m.Called(userID, delta)
	return args.Error(0)
}

func (m *MockStorage) SaveReport(report *models.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockStorage) UpdateReport(report *models.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockStorage) GetReportByID(id uint) (*models.Report, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockStorage) GetReportsForUser(userID string, since time.Time) ([]models.Report, error) {
	args := m.Called(userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockStorage) IsUserBanned(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) SetBan(userID string, d time.Duration) error {
	args := m.Called(userID, d)
	return args.Error(0)
}

func (m *MockStorage) ClearBan(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStorage) SetOnline(connID string) error {
	args := m.Called(connID)
	return args.Error(0)
}

func (m *MockStorage) SetOffline(connID string) error {
	args := m.Called(connID)
	return args.Error(0)
}

func (m *MockStorage) PublishStats(stats models.StatsSnapshot) error {
	args := m.Called(stats)
	return args.Error(0)
}

func sampleReport(targetUserID, severity string) *models.Report {
	return &models.Report{
		ReporterConnID: "conn_R",
		TargetConnID:   "conn_T",
		ReporterUserID: "user_R",
		TargetUserID:   targetUserID,
		RoomID:         "video_conn_R_conn_T_1",
		Reason:         "abusive",
		Severity:       severity,
	}
}

// TestHandleReport_AnonymousTarget: the report row is saved but reputation
// and bans never apply to anonymous sessions.
func TestHandleReport_AnonymousTarget(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	storageMock.On("SaveReport", mock.AnythingOfType("*models.Report")).Return(nil).Once()

	err := svc.HandleReport(sampleReport("", "Medium"))

	assert.NoError(t, err)
	storageMock.AssertExpectations(t)
	storageMock.AssertNotCalled(t, "UpdateUserReputation", mock.Anything, mock.Anything)
}

func TestHandleReport_PenalizesWithoutBan(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	storageMock.On("SaveReport", mock.AnythingOfType("*models.Report")).Return(nil)
	storageMock.On("UpdateUserReputation", "user_T", -config.ReportWeights["Medium"]).Return(nil)
	storageMock.On("GetUserByID", "user_T").Return(&models.User{ID: "user_T", ReputationScore: 900}, nil)
	storageMock.On("GetReportsForUser", "user_T", mock.AnythingOfType("time.Time")).Return([]models.Report{}, nil)

	err := svc.HandleReport(sampleReport("user_T", "Medium"))

	assert.NoError(t, err)
	storageMock.AssertExpectations(t)
	storageMock.AssertNotCalled(t, "SetBan", mock.Anything, mock.Anything)
}

// TestHandleReport_UnknownSeverityFallsBackToLow: unrecognized severities get
// the lightest penalty rather than none.
func TestHandleReport_UnknownSeverityFallsBackToLow(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	storageMock.On("SaveReport", mock.AnythingOfType("*models.Report")).Return(nil)
	storageMock.On("UpdateUserReputation", "user_T", -config.ReportWeights["Low"]).Return(nil)
	storageMock.On("GetUserByID", "user_T").Return(&models.User{ID: "user_T", ReputationScore: 900}, nil)
	storageMock.On("GetReportsForUser", "user_T", mock.AnythingOfType("time.Time")).Return([]models.Report{}, nil)

	err := svc.HandleReport(sampleReport("user_T", "made-up"))

	assert.NoError(t, err)
	storageMock.AssertExpectations(t)
}

// TestHandleReport_ThresholdBan: reputation below the threshold bans at
// level 1 for a first offense.
func TestHandleReport_ThresholdBan(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	user := &models.User{ID: "user_T", ReputationScore: 400}
	storageMock.On("SaveReport", mock.AnythingOfType("*models.Report")).Return(nil)
	storageMock.On("UpdateUserReputation", "user_T", -config.ReportWeights["Critical"]).Return(nil)
	storageMock.On("GetUserByID", "user_T").Return(user, nil)
	storageMock.On("UpdateUser", user).Return(nil)
	storageMock.On("SetBan", "user_T", config.BanLevel1Duration).Return(nil)

	err := svc.HandleReport(sampleReport("user_T", "Critical"))

	assert.NoError(t, err)
	storageMock.AssertExpectations(t)
	assert.True(t, user.IsBlocked)
	assert.Equal(t, 1, user.BlockLevel)
	assert.NotZero(t, user.LastBanDate)
}

// TestHandleReport_FrequencyBan: healthy reputation still bans when reports
// pile up inside the window.
func TestHandleReport_FrequencyBan(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	user := &models.User{ID: "user_T", ReputationScore: 900}
	pile := make([]models.Report, config.BanThresholdFrequency+1)
	storageMock.On("SaveReport", mock.AnythingOfType("*models.Report")).Return(nil)
	storageMock.On("UpdateUserReputation", "user_T", -config.ReportWeights["Low"]).Return(nil)
	storageMock.On("GetUserByID", "user_T").Return(user, nil)
	storageMock.On("GetReportsForUser", "user_T", mock.AnythingOfType("time.Time")).Return(pile, nil)
	storageMock.On("UpdateUser", user).Return(nil)
	storageMock.On("SetBan", "user_T", config.BanLevel1Duration).Return(nil)

	err := svc.HandleReport(sampleReport("user_T", "Low"))

	assert.NoError(t, err)
	storageMock.AssertExpectations(t)
	assert.True(t, user.IsBlocked)
}

// TestHandleReport_EscalatesRecentOffender: a ban within the last week
// escalates to level 2 with the longer duration.
func TestHandleReport_EscalatesRecentOffender(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	user := &models.User{
		ID:              "user_T",
		ReputationScore: 400,
		LastBanDate:     time.Now().Add(-48 * time.Hour).Unix(),
	}
	storageMock.On("SaveReport", mock.AnythingOfType("*models.Report")).Return(nil)
	storageMock.On("UpdateUserReputation", "user_T", -config.ReportWeights["Critical"]).Return(nil)
	storageMock.On("GetUserByID", "user_T").Return(user, nil)
	storageMock.On("UpdateUser", user).Return(nil)
	storageMock.On("SetBan", "user_T", config.BanLevel2Duration).Return(nil)

	err := svc.HandleReport(sampleReport("user_T", "Critical"))

	assert.NoError(t, err)
	storageMock.AssertExpectations(t)
	assert.Equal(t, 2, user.BlockLevel)
}

func TestConfirmReport(t *testing.T) {
	storageMock := new(MockStorage)
	svc := moderation.NewService(storageMock)

	report := sampleReport("user_T", "Medium")
	report.Status = models.ReportStatusNew
	storageMock.On("GetReportByID", uint(7)).Return(report, nil)
	storageMock.On("UpdateReport", report).Return(nil)
	storageMock.On("UpdateUserReputation", "user_R", config.ConfirmedReportBonus).Return(nil)

	err := svc.ConfirmReport(7)

	assert.NoError(t, err)
	storageMock.AssertExpectations(t)
	assert.Equal(t, models.ReportStatusConfirmed, report.Status)
}
