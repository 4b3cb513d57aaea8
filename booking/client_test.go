package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsinyu-lin/classroom_booking/models"
)

func TestClientRoundTrip(t *testing.T) {
	var sawAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/classrooms":
			json.NewEncoder(w).Encode(models.SeedClassrooms())
		case "/api/reservations":
			if r.Method == http.MethodPost {
				sawAuth = r.Header.Get("Authorization")
				var input CreateReservationInput
				require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(reservationFromInput(input))
				return
			}
			json.NewEncoder(w).Encode([]models.Reservation{})
		case "/api/auth/login":
			json.NewEncoder(w).Encode(map[string]string{
				"token": "issued-token",
				"id":    "u1",
				"email": "test@example.com",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	classrooms, err := client.ListClassrooms(ctx)
	require.NoError(t, err)
	assert.Len(t, classrooms, 5)

	auth, err := client.Login(ctx, "test@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", auth.Token)

	created, err := client.CreateReservation(ctx, CreateReservationInput{
		ClassroomID: "c1",
		UserName:    "測試者",
		Purpose:     "測試用",
		Date:        "2025-10-30T00:00:00Z",
		TimeSlot:    "第一節",
	})
	require.NoError(t, err)
	assert.Equal(t, "測試用", created.Purpose)
	assert.Equal(t, "Bearer issued-token", sawAuth, "login token must ride on later requests")
}

func TestClientDecodesErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "缺少必要的欄位"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.CreateReservation(context.Background(), CreateReservationInput{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "缺少必要的欄位", apiErr.Message)
}

func TestTokenFile(t *testing.T) {
	tf, err := NewTokenFile(t.TempDir())
	require.NoError(t, err)

	// Missing file reads back as anonymous.
	token, err := tf.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, tf.Save("stored-token"))
	token, err = tf.Load()
	require.NoError(t, err)
	assert.Equal(t, "stored-token", token)

	require.NoError(t, tf.Clear())
	token, err = tf.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}
