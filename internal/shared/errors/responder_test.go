package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, responder *Responder, handle func(*Responder, *gin.Context)) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/order/:id", func(c *gin.Context) { handle(responder, c) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order/999", nil))

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestRespond_NotFoundProblem(t *testing.T) {
	rec, problem := serve(t, DefaultResponder, func(r *Responder, c *gin.Context) {
		r.Respond(c, NewNotFoundProblem("order", "999"))
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, TypeNotFound, problem.Type)
	assert.Equal(t, "/order/999", problem.Instance)
	assert.Equal(t, "order with identifier '999' not found", problem.Detail)
	assert.Equal(t, "order", problem.Extensions["resourceType"])
}

func TestRespond_PrefixesBaseURI(t *testing.T) {
	_, problem := serve(t, NewResponder("https://tracker.example"), func(r *Responder, c *gin.Context) {
		r.Respond(c, ErrValidation)
	})

	assert.Equal(t, "https://tracker.example"+TypeValidation, problem.Type)
}

func TestRespondError(t *testing.T) {
	rec, problem := serve(t, DefaultResponder, func(r *Responder, c *gin.Context) {
		r.RespondError(c, errors.New("boom"))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "boom", problem.Detail)

	rec, problem = serve(t, DefaultResponder, func(r *Responder, c *gin.Context) {
		r.RespondError(c, ErrNotFound.WithDetail("gone"))
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Resource Not Found: gone", problem.Error())
}
