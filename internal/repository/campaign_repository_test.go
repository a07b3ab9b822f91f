package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
	"github.com/unclebandit/leadreach-backend/internal/model"
)

var campaignCols = []string{
	"id", "user_id", "instance_id", "name", "keywords", "sources", "location", "radius_km",
	"status", "total_leads", "unique_leads", "metadata", "created_at", "started_at", "completed_at",
}

func TestCampaignRepository_Create(t *testing.T) {
	conn, mock := newMock(t)
	repo := &CampaignRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lead_campaigns")).
		WithArgs(anyArgs(11)...).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &model.Campaign{UserID: "user-1", Name: "Pizzarias SP", Keywords: []string{"pizza", "pizza"}}
	require.NoError(t, repo.Create(context.Background(), c))

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, model.CampaignPending, c.Status)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestCampaignRepository_GetByID(t *testing.T) {
	conn, mock := newMock(t)
	repo := &CampaignRepository{DB: conn}
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(campaignCols).AddRow(
		"c-1", "user-1", nil, "Pizzarias", "{pizza,forno}", "{google_maps}", nil, nil,
		"completed", 12, 9, []byte(`{"categories":["food"],"use_ai":true}`), created, nil, created,
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM lead_campaigns WHERE id=$1 AND user_id=$2")).
		WithArgs("c-1", "user-1").
		WillReturnRows(rows)

	c, err := repo.GetByID(context.Background(), "user-1", "c-1")
	require.NoError(t, err)

	assert.Equal(t, "c-1", c.ID)
	assert.Nil(t, c.InstanceID)
	assert.Equal(t, []string{"pizza", "forno"}, c.Keywords)
	assert.Equal(t, model.CampaignCompleted, c.Status)
	assert.Equal(t, 12, c.TotalLeads)
	assert.Equal(t, 9, c.UniqueLeads)
	assert.True(t, c.Metadata.UseAI)
	assert.Equal(t, []string{"food"}, c.Metadata.Categories)
	require.NotNil(t, c.CompletedAt)
}

func TestCampaignRepository_GetByID_NotFound(t *testing.T) {
	conn, mock := newMock(t)
	repo := &CampaignRepository{DB: conn}

	mock.ExpectQuery(regexp.QuoteMeta("FROM lead_campaigns")).
		WillReturnRows(sqlmock.NewRows(campaignCols))

	_, err := repo.GetByID(context.Background(), "user-1", "missing")

	var notFound *appErrors.ErrCampaignNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.CampaignID)
}

func TestCampaignRepository_ListByUser_Ordered(t *testing.T) {
	conn, mock := newMock(t)
	repo := &CampaignRepository{DB: conn}
	now := time.Now()

	rows := sqlmock.NewRows(campaignCols).
		AddRow("c-2", "user-1", nil, "B", "{}", "{}", nil, nil, "pending", 0, 0, []byte(`{}`), now, nil, nil).
		AddRow("c-1", "user-1", nil, "A", "{}", "{}", nil, nil, "completed", 3, 3, []byte(`{}`), now.Add(-time.Hour), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id=$1 ORDER BY created_at DESC")).
		WithArgs("user-1").
		WillReturnRows(rows)

	list, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c-2", list[0].ID)
}

func TestCampaignRepository_UpdateStatus_RunningStampsStart(t *testing.T) {
	conn, mock := newMock(t)
	repo := &CampaignRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("SET status=$1, started_at=$3 WHERE id=$2")).
		WithArgs(model.CampaignRunning, "c-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET status=$1 WHERE id=$2")).
		WithArgs(model.CampaignPaused, "c-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "c-1", model.CampaignRunning))
	require.NoError(t, repo.UpdateStatus(context.Background(), "c-1", model.CampaignPaused))
}

func TestCampaignRepository_Delete(t *testing.T) {
	conn, mock := newMock(t)
	repo := &CampaignRepository{DB: conn}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM lead_campaigns")).
		WithArgs("c-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM lead_campaigns")).
		WithArgs("c-2", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM lead_campaigns")).
		WithArgs("c-3", "user-1").
		WillReturnError(errors.New("connection reset"))

	require.NoError(t, repo.Delete(context.Background(), "user-1", "c-1"))
	assert.True(t, appErrors.IsNotFound(repo.Delete(context.Background(), "user-1", "c-2")))
	err := repo.Delete(context.Background(), "user-1", "c-3")
	require.Error(t, err)
	assert.False(t, appErrors.IsNotFound(err))
}
