package handoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Title string `json:"title"`
	Days  int    `json:"days"`
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	require.NoError(t, SetJSON(ctx, s, "trip-1", entry{Title: "Tokyo", Days: 8}, 0))

	got, found, err := GetJSON[entry](ctx, s, "trip-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Tokyo", got.Title)

	require.NoError(t, SetJSON(ctx, s, "trip-1", entry{Title: "Kyoto", Days: 2}, time.Minute))
	got, _, err = GetJSON[entry](ctx, s, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", got.Title, "set replaces the whole entry")

	require.NoError(t, s.Delete(ctx, "trip-1"))
	_, found, err = GetJSON[entry](ctx, s, "trip-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	require.NoError(t, s.Set(ctx, "k", []byte(`{}`), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	buf := []byte(`{"title":"a"}`)
	require.NoError(t, s.Set(ctx, "k", buf, 0))
	buf[2] = 'X'

	got, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"a"}`, string(got))
}

func TestGetJSON_Malformed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	require.NoError(t, s.Set(ctx, "trip-2", []byte("not json"), 0))

	_, found, err := GetJSON[entry](ctx, s, "trip-2")
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestMemoryStore_SetIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	ok, err := s.SetIfAbsent(ctx, "wizard:s1:submit", []byte("user-1"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetIfAbsent(ctx, "wizard:s1:submit", []byte("user-2"), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	raw, _, _ := s.Get(ctx, "wizard:s1:submit")
	assert.Equal(t, "user-1", string(raw))

	require.NoError(t, s.Delete(ctx, "wizard:s1:submit"))
	ok, err = s.SetIfAbsent(ctx, "wizard:s1:submit", []byte("user-2"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	s := NewRedisStore(client)
	value := []byte(`{"title":"Tokyo","days":8}`)

	mock.ExpectSet("handoff:trip-1", value, 30*time.Minute).SetVal("OK")
	require.NoError(t, s.Set(ctx, "trip-1", value, 30*time.Minute))

	mock.ExpectGet("handoff:trip-1").SetVal(string(value))
	got, found, err := GetJSON[entry](ctx, s, "trip-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 8, got.Days)

	mock.ExpectGet("handoff:trip-9").RedisNil()
	_, found, err = s.Get(ctx, "trip-9")
	require.NoError(t, err)
	assert.False(t, found)

	mock.ExpectGet("handoff:trip-err").SetErr(errors.New("connection refused"))
	_, _, err = s.Get(ctx, "trip-err")
	assert.Error(t, err)

	mock.ExpectDel("handoff:trip-1").SetVal(1)
	require.NoError(t, s.Delete(ctx, "trip-1"))

	claim := []byte("user-1")
	mock.ExpectSetNX("handoff:wizard:s1:submit", claim, time.Minute).SetVal(true)
	ok, err := s.SetIfAbsent(ctx, "wizard:s1:submit", claim, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectSetNX("handoff:wizard:s1:submit", claim, time.Minute).SetVal(false)
	ok, err = s.SetIfAbsent(ctx, "wizard:s1:submit", claim, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectSetNX("handoff:wizard:s2:submit", claim, time.Minute).SetErr(errors.New("connection refused"))
	_, err = s.SetIfAbsent(ctx, "wizard:s2:submit", claim, time.Minute)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
