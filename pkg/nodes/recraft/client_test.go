package recraft

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukex/operion-recraft/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do_JSON(t *testing.T) {
	var received map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	d, err := NewBuilder(DefaultConfig(), "tok", nil).Build(context.Background(), 0, item(models.OpGenerate, models.ParameterSet{
		ParamPrompt: "a cat",
	}))
	require.NoError(t, err)

	resp, err := NewClient(server.URL+"/v1/", server.Client(), nil).Do(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"data":[]}`, string(resp.Body))
	assert.Equal(t, "a cat", received["prompt"])
	assert.Equal(t, "recraftv3", received["model"])
}

func TestClient_Do_Multipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/inpaint", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}

		assert.Equal(t, "add a hat", r.FormValue("prompt"))
		assert.Equal(t, "any", r.FormValue("style"))
		assert.Empty(t, r.FormValue("strength"))

		image, header, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			return
		}
		defer image.Close()

		assert.Equal(t, "input.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))

		data, _ := io.ReadAll(image)
		assert.Equal(t, pngData(), data)

		_, mask, err := r.FormFile("mask")
		if assert.NoError(t, err) {
			assert.Equal(t, "mask.png", mask.Filename)
		}

		_, _ = w.Write([]byte(`{"data":[{"url":"u"}]}`))
	}))
	defer server.Close()

	d, err := newTestBuilder(newStore(t)).Build(context.Background(), 0, item(models.OpInpaint, models.ParameterSet{
		ParamPrompt: "add a hat",
	}))
	require.NoError(t, err)

	resp, err := NewClient(server.URL, server.Client(), nil).Do(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_Do_ErrorStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid token"}`))
	}))
	defer server.Close()

	d, err := NewBuilder(DefaultConfig(), "bad", nil).Build(context.Background(), 0, item(models.OpGetUserInfo, nil))
	require.NoError(t, err)

	resp, err := NewClient(server.URL, nil, nil).Do(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestClient_Do_Query(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v", r.URL.Query().Get("k"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	d := &models.RequestDescriptor{
		Operation: models.OpGetUserInfo,
		Method:    http.MethodGet,
		Path:      PathUserInfo,
		Query:     map[string]string{"k": "v"},
	}

	resp, err := NewClient(server.URL, nil, nil).Do(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Body)
}
