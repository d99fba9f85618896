package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, hasDecoder bool) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	tmpl, err := Template()
	require.NoError(t, err)
	router.SetHTMLTemplate(tmpl)

	NewHandler(hasDecoder, 1000).RegisterRoutes(router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestIndexRenders(t *testing.T) {
	w := serve(t, false)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "EventSource('/sse')")
	assert.Contains(t, body, "Updates every 1000ms")
	assert.NotContains(t, body, "Decoded Content")
}

func TestIndexRendersDecoderColumn(t *testing.T) {
	w := serve(t, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Decoded Content")
}
