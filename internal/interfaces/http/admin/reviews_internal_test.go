package admin

import (
	"testing"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReviewStatus(t *testing.T) {
	status, err := parseReviewStatus("")
	require.NoError(t, err)
	assert.Nil(t, status)

	status, err = parseReviewStatus("all")
	require.NoError(t, err)
	assert.Nil(t, status)

	status, err = parseReviewStatus(" rejected ")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, domain.ReviewRejected, *status)

	_, err = parseReviewStatus("archived")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
