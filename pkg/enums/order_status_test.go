package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatusIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	status, err := ParseOrderStatus("Approved")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusApproved, status)

	status, err = ParseOrderStatus("DECLINED")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusDeclined, status)
}

func TestParseOrderStatusRejectsUnknown(t *testing.T) {
	t.Parallel()

	_, err := ParseOrderStatus("refunded")
	require.Error(t, err)
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, OrderStatusPending.IsValid())
	assert.True(t, OrderStatusShipped.IsValid())
	assert.False(t, OrderStatus("refunded").IsValid())
}
