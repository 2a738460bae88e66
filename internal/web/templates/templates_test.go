package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectPage(t *testing.T) {
	var buf bytes.Buffer
	err := ConnectPage(ConnectForm{Host: "localhost", Port: 5432}, []Flash{
		{Category: FlashDanger, Message: "Connection failed: <boom>"},
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `action="/connect"`)
	assert.Contains(t, html, `name="host" value="localhost"`)
	assert.Contains(t, html, `name="port" value="5432"`)
	assert.Contains(t, html, `data-category="danger"`)
	assert.Contains(t, html, "Connection failed: &lt;boom&gt;")
	assert.NotContains(t, html, "<boom>")
}

func TestUploadPage_MultiLineFlash(t *testing.T) {
	var buf bytes.Buffer
	err := UploadPage("u@h:5432/d", []string{"csv", "xlsx"}, []Flash{
		{Category: FlashInfo, Message: "✅ a.csv: 1 records uploaded to table \"a\"\n❌ b.txt: Invalid file type"},
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `enctype="multipart/form-data"`)
	assert.Contains(t, html, `name="files" multiple`)
	assert.Contains(t, html, `accept=".csv,.xlsx"`)
	assert.Contains(t, html, "<li>❌ b.txt: Invalid file type</li>")
	assert.Contains(t, html, "u@h:5432/d")
}

func TestFlashAlert_Category(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{FlashSuccess, `data-category="success"`},
		{FlashWarning, `data-category="warning"`},
		{"bogus", `data-category="info"`},
		{"", `data-category="info"`},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, FlashAlert(Flash{Category: tt.category, Message: "x"}).Render(context.Background(), &buf))
			assert.Contains(t, buf.String(), tt.want)
			assert.NotContains(t, buf.String(), "<ul>")
		})
	}
}

func TestErrorPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorPage("Too many requests", "Wait", "RATE001").Render(context.Background(), &buf))
	html := buf.String()
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "<h1>Something went wrong</h1>")
	assert.Contains(t, html, "<strong>Too many requests</strong>")
	assert.Contains(t, html, "Error code: RATE001")
	assert.Less(t, strings.Index(html, "<h1>"), strings.Index(html, "RATE001"))
}

func TestAcceptList(t *testing.T) {
	assert.Equal(t, ".csv,.xlsx,.xls", acceptList([]string{"csv", ".xlsx", "xls"}))
	assert.Equal(t, "", acceptList(nil))
}
