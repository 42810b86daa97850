package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRendersInHeaderOrder(t *testing.T) {
	data := DatasetFromRows([]string{"name", "hours", "week"}, []map[string]interface{}{
		{"week": time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), "name": "Ana", "hours": int64(40)},
		{"name": "Luis, Jr.", "hours": nil},
	})

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "name,hours,week\nAna,40,2024-03-04\n\"Luis, Jr.\",,\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRendersDocument(t *testing.T) {
	headers := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	row := map[string]interface{}{}
	for _, h := range headers {
		row[h] = "valor largo para la columna " + h
	}
	out, err := NewPDFExporter().Render(Dataset{Headers: headers, Rows: []map[string]interface{}{row}}, "Asignaciones")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "12.5", FormatValue(12.5))
	assert.Equal(t, "abc", FormatValue([]byte("abc")))
	assert.Equal(t, "2024-03-04T10:30:00Z", FormatValue(time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)))
}
