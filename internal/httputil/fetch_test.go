// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Success(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	req, err := NewGet(context.Background(), ts.URL, "scholar-search/test")
	require.NoError(t, err)

	body, err := Fetch(context.Background(), ts.Client(), req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, "scholar-search/test", gotUA)
}

func TestFetch_TooManyRequestsNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer ts.Close()

	req, err := NewGet(context.Background(), ts.URL, "")
	require.NoError(t, err)

	_, err = Fetch(context.Background(), ts.Client(), req)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.True(t, se.TooManyRequests())
	assert.Equal(t, "HTTP 429: slow down", se.Error())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_ServerErrorBodyTruncated(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("x", 500)))
	}))
	defer ts.Close()

	req, err := NewGet(context.Background(), ts.URL, "")
	require.NoError(t, err)

	_, err = Fetch(context.Background(), ts.Client(), req)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Len(t, se.Body, 200)
	assert.False(t, se.TooManyRequests())
}

func TestFetch_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := NewGet(ctx, ts.URL, "")
	require.NoError(t, err)

	_, err = Fetch(ctx, ts.Client(), req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStatusErrorWithoutBody(t *testing.T) {
	assert.Equal(t, "HTTP 404", (&StatusError{StatusCode: 404}).Error())
}
