package fedapay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	c := NewClient("https://api.example.test", "sk_test", "whsec_test")
	body := []byte(`{"name":"transaction.approved"}`)

	assert.True(t, c.VerifySignature(body, sign("whsec_test", body)))
	assert.False(t, c.VerifySignature(body, sign("whsec_other", body)))
	assert.False(t, c.VerifySignature([]byte(`{"tampered":true}`), sign("whsec_test", body)))
	assert.False(t, c.VerifySignature(body, ""))

	// A client without a webhook secret rejects everything.
	open := NewClient("https://api.example.test", "sk_test", "")
	assert.False(t, open.VerifySignature(body, sign("", body)))
}

func TestParseWebhook(t *testing.T) {
	body := []byte(`{
		"name": "transaction.approved",
		"entity": {
			"id": 1234,
			"reference": "trx_9f1",
			"status": "approved",
			"amount": 5000,
			"mode": "mtn",
			"custom_metadata": {"reference": "SUB-01HZX"}
		}
	}`)

	ev, err := ParseWebhook(body)
	require.NoError(t, err)
	assert.Equal(t, "transaction.approved", ev.Name)
	assert.Equal(t, int64(1234), ev.Entity.ID)
	assert.Equal(t, "SUB-01HZX", ev.Entity.CustomMetadata.Reference)

	_, err = ParseWebhook([]byte("not json"))
	assert.Error(t, err)
}

func TestCreateTransaction(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"v1/transaction": map[string]interface{}{
				"id":           1234,
				"reference":    "trx_9f1",
				"status":       "pending",
				"checkout_url": "https://checkout.example.test/trx_9f1",
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test", "whsec_test")
	tx, err := c.CreateTransaction(t.Context(), &CreateTransactionRequest{
		Description:   "Projexa Premium subscription",
		Amount:        5000,
		Currency:      "XOF",
		CustomerEmail: "user@example.test",
		CustomerName:  "Awa",
		Reference:     "SUB-01HZX",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.Equal(t, "https://checkout.example.test/trx_9f1", tx.CheckoutURL)

	inner := gotPayload["transaction"].(map[string]interface{})
	assert.Equal(t, "SUB-01HZX", inner["custom_metadata"].(map[string]interface{})["reference"])
	assert.Equal(t, "XOF", inner["currency"].(map[string]interface{})["iso"])
}

func TestCreateTransaction_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid amount"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk_test", "whsec_test")
	_, err := c.CreateTransaction(t.Context(), &CreateTransactionRequest{Amount: -1})
	assert.Error(t, err)
}
