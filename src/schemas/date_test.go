package schemas_test

import (
	"encoding/json"
	"testing"
	"time"

	"ledger/src/schemas"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		d := schemas.NewDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
		b, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"2024-03-01"`, string(b))

		var parsed schemas.Date
		require.NoError(t, json.Unmarshal(b, &parsed))
		assert.True(t, parsed.Equal(d.Time))
	})

	t.Run("NullAndEmptyAreZero", func(t *testing.T) {
		var d schemas.Date
		require.NoError(t, json.Unmarshal([]byte(`null`), &d))
		assert.True(t, d.IsZero())

		b, err := json.Marshal(schemas.Date{})
		require.NoError(t, err)
		assert.Equal(t, `null`, string(b))
	})

	t.Run("RejectsOtherFormats", func(t *testing.T) {
		var d schemas.Date
		assert.Error(t, json.Unmarshal([]byte(`"01/03/2024"`), &d))
	})
}
