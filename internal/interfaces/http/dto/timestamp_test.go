package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_MarshalJSON(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	ts := NewTimestamp(time.Date(2024, 3, 5, 12, 30, 15, 123456789, moscow))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05T09:30:15.123Z"`, string(data))
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-05T09:30:15.123Z"`), &ts))
	assert.True(t, time.Date(2024, 3, 5, 9, 30, 15, 123000000, time.UTC).Equal(ts.Time()))

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`42`), &ts))
}
