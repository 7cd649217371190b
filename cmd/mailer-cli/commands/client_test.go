package commands

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/job-mailer/internal/domain"
)

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("localhost", time.Second)
	assert.Error(t, err)

	_, err = NewClient("http://localhost:8080/", 0)
	assert.NoError(t, err)
}

func TestAPIClient_SendJob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/send", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "job-1", body["jobId"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"job":{"id":"job-1","status":"SENT"},"message":"Email sent successfully"}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL+"/", time.Second)
	require.NoError(t, err)

	result, err := client.SendJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, domain.JobStatusSent, result.Job.Status)
}

func TestAPIClient_SendBulk(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/send/bulk", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":"No jobs to send","results":[],"summary":{"total":0,"sent":0,"failed":0}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second)
	require.NoError(t, err)

	result, err := client.SendBulk(context.Background(), domain.JobStatusDraft)
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", got["status"])
	assert.Equal(t, "No jobs to send", result.Message)
	assert.Empty(t, result.Results)
}

func TestAPIClient_ErrorResponse(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "json error", status: http.StatusConflict, body: `{"error":"Job already sent"}`, wantMessage: "Job already sent"},
		{name: "plain text", status: http.StatusBadGateway, body: "upstream down", wantMessage: "upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := NewClient(server.URL, time.Second)
			require.NoError(t, err)

			_, err = client.SendJob(context.Background(), "job-1")

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}
