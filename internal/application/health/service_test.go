package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"pcns-backend/internal/application/activities"
	"pcns-backend/internal/infrastructure/database/dbtest"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping() error { return p.err }

func TestCollect_WithNothing(t *testing.T) {
	result := (&Service{}).Collect(context.Background())
	assert.Equal(t, "issue", result.Status)
	assert.Equal(t, "disconnected", result.Dependencies["database"].Status)
	assert.Equal(t, "disconnected", result.Dependencies["redis"].Status)
	assert.Equal(t, 0, result.Traffic.TotalRequests)
	assert.Nil(t, result.Records)
}

func TestCollect_WithMiniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()
	s := &Service{Rdb: rdb, DB: pinger{}}

	result := s.Collect(ctx)
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "connected", result.Dependencies["redis"].Status)
	assert.Equal(t, "100", result.Traffic.SuccessRate)

	require.NoError(t, rdb.Set(ctx, "health:pcns:req_total", "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:pcns:req_errors", "2", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:pcns:res_time_total", "150.5", 0).Err())
	require.NoError(t, rdb.Set(ctx, "health:pcns:res_count", "10", 0).Err())
	require.NoError(t, rdb.HSet(ctx, "health:pcns:route_hits", "GET /api/v1/enquiry", 7).Err())

	result = s.Collect(ctx)
	assert.Equal(t, 10, result.Traffic.TotalRequests)
	assert.Equal(t, 8, result.Traffic.SuccessCount)
	assert.Equal(t, "80.0", result.Traffic.SuccessRate)
	assert.Equal(t, "15.05", result.Traffic.AvgResponseTime)
	assert.EqualValues(t, 7, result.Traffic.Routes["GET /api/v1/enquiry"])
}

func TestCollect_DatabaseError(t *testing.T) {
	result := (&Service{DB: pinger{err: errors.New("down")}}).Collect(context.Background())
	assert.Equal(t, "error", result.Dependencies["database"].Status)
	assert.Equal(t, "issue", result.Status)
}

func TestCollect_CountsLiveRecords(t *testing.T) {
	chain, _ := dbtest.Chain(t)
	ctx := context.Background()
	id, err := activities.Create(ctx, chain, activities.InitiativeHousing)
	require.NoError(t, err)
	_, err = activities.Create(ctx, chain, activities.InitiativeHousing)
	require.NoError(t, err)
	require.NoError(t, activities.SoftDelete(ctx, chain, id, time.Now().UTC()))

	result := (&Service{DB: pinger{}, Data: chain}).Collect(ctx)
	assert.EqualValues(t, 1, result.Records["activity"])
	assert.EqualValues(t, 0, result.Records["enquiry"])
}
