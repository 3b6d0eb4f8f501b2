package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_HomeCountry(t *testing.T) {
	calls := 0
	responses := map[string]string{
		"user-1": `[{"home_country":" Canada "}]`,
		"user-2": `[{"home_country":null}]`,
		"user-3": `[]`,
	}
	svc := newProfileService(func(userID string) ([]byte, error) {
		calls++
		if userID == "user-4" {
			return nil, errors.New("postgrest: 503")
		}
		return []byte(responses[userID]), nil
	})
	ctx := context.Background()

	country, err := svc.HomeCountry(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Canada", country)

	country, err = svc.HomeCountry(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Canada", country)
	assert.Equal(t, 1, calls)

	for _, id := range []string{"user-2", "user-3"} {
		country, err = svc.HomeCountry(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, country, id)
	}

	_, err = svc.HomeCountry(ctx, "user-4")
	assert.Error(t, err)
	_, err = svc.HomeCountry(ctx, "user-4")
	assert.Error(t, err)
	assert.Equal(t, 5, calls)
}

func TestProfileService_Nil(t *testing.T) {
	var svc *ProfileService
	country, err := svc.HomeCountry(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, country)

	svc, err = NewProfileService("", "", "profiles")
	require.NoError(t, err)
	assert.Nil(t, svc)
}
