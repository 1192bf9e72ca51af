package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alwitt/keyvault/api"
	"github.com/alwitt/keyvault/db"
	"github.com/alwitt/keyvault/encryption"
	mockstore "github.com/alwitt/keyvault/mocks/store"
	"github.com/alwitt/keyvault/models"
	"github.com/alwitt/keyvault/store"
	"github.com/alwitt/keyvault/vault"
	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(
	t *testing.T, handler http.Handler, method, path string, body interface{},
) *httptest.ResponseRecorder {
	var payload []byte
	switch v := body.(type) {
	case nil:
	case string:
		payload = []byte(v)
	default:
		var err error
		payload, err = json.Marshal(body)
		assert.Nil(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func errorMessage(t *testing.T, resp *httptest.ResponseRecorder) string {
	var body map[string]string
	assert.Nil(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	uut := api.NewRouter(mockstore.NewVaultStore(t))

	resp := doRequest(t, uut.Handler(), http.MethodGet, "/health", nil)
	assert.Equal(http.StatusOK, resp.Code)
	assert.NotEmpty(resp.Header().Get("X-Request-ID"))
}

func TestVaultErrorMapping(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	mockStore := mockstore.NewVaultStore(t)
	uut := api.NewRouter(mockStore)

	testID := uuid.NewString()

	// Case 0: invalid input
	mockStore.On("CreateKey", mock.Anything, mock.Anything, mock.Anything).Return(
		models.MaskedVaultKey{}, fmt.Errorf("wrapped [%w]", vault.ErrInvalidInput),
	).Once()
	resp := doRequest(t, uut.Handler(), http.MethodPost, "/api/vault", map[string]string{"name": "x"})
	assert.Equal(http.StatusBadRequest, resp.Code)
	assert.NotEmpty(errorMessage(t, resp))

	// Case 1: not valid JSON never reaches the store
	resp = doRequest(t, uut.Handler(), http.MethodPost, "/api/vault", "{not json")
	assert.Equal(http.StatusBadRequest, resp.Code)

	// Case 2: not found
	mockStore.On("DeleteKey", mock.Anything, testID, mock.Anything).Return(
		fmt.Errorf("wrapped [%w]", db.ErrVaultKeyNotFound),
	).Once()
	resp = doRequest(t, uut.Handler(), http.MethodDelete, "/api/vault/"+testID, nil)
	assert.Equal(http.StatusNotFound, resp.Code)

	// Case 3: undecryptable value
	mockStore.On("RevealKey", mock.Anything, testID, mock.Anything).Return(
		"", fmt.Errorf("wrapped [%w]", encryption.ErrDecryptFailed),
	).Once()
	resp = doRequest(t, uut.Handler(), http.MethodPost, "/api/vault/"+testID+"/reveal", nil)
	assert.Equal(http.StatusUnprocessableEntity, resp.Code)

	// Case 4: missing secret
	mockStore.On("RevealKey", mock.Anything, testID, mock.Anything).Return(
		"", fmt.Errorf("wrapped [%w]", encryption.ErrConfiguration),
	).Once()
	resp = doRequest(t, uut.Handler(), http.MethodPost, "/api/vault/"+testID+"/reveal", nil)
	assert.Equal(http.StatusInternalServerError, resp.Code)

	// Case 5: anything else
	mockStore.On("ListKeys", mock.Anything, db.VaultKeyQueryFilter{}, mock.Anything).Return(
		nil, errors.New("dummy error"),
	).Once()
	resp = doRequest(t, uut.Handler(), http.MethodGet, "/api/vault", nil)
	assert.Equal(http.StatusInternalServerError, resp.Code)

	// Case 6: bad pagination never reaches the store
	resp = doRequest(t, uut.Handler(), http.MethodGet, "/api/vault?limit=abc", nil)
	assert.Equal(http.StatusBadRequest, resp.Code)
	resp = doRequest(t, uut.Handler(), http.MethodGet, "/api/vault?offset=-1", nil)
	assert.Equal(http.StatusBadRequest, resp.Code)
}

func TestVaultListFilters(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	mockStore := mockstore.NewVaultStore(t)
	uut := api.NewRouter(mockStore)

	limit := 10
	offset := 5
	service := "Alpaca"
	category := "Finance"
	mockStore.On("ListKeys", mock.Anything, db.VaultKeyQueryFilter{
		CommonListEntryQueryFilter: db.CommonListEntryQueryFilter{Limit: &limit, Offset: &offset},
		Service:                    &service,
		Category:                   &category,
	}, mock.Anything).Return([]models.MaskedVaultKey{
		{ID: uuid.NewString(), Name: "Trading Bot", Service: service, KeyMasked: "****1234"},
	}, nil).Once()

	resp := doRequest(
		t,
		uut.Handler(),
		http.MethodGet,
		"/api/vault?service=Alpaca&category=Finance&limit=10&offset=5",
		nil,
	)
	assert.Equal(http.StatusOK, resp.Code)

	var listed []models.MaskedVaultKey
	assert.Nil(json.Unmarshal(resp.Body.Bytes(), &listed))
	assert.Len(listed, 1)
	assert.Equal("****1234", listed[0].KeyMasked)
}

func TestVaultAPIFlow(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()

	testDB := fmt.Sprintf("/tmp/keyvault_ut_%s.db", ulid.Make().String())
	persistence, err := db.NewConnection(db.GetSqliteDialector(testDB), logger.Error)
	assert.Nil(err)
	assert.Nil(persistence.RunSQLInTransaction(utCtx, db.DefineTables))

	codec, err := encryption.NewCodec(encryption.CodecParams{
		Keys: encryption.NewStaticKeyProvider("api-test-secret"),
	})
	assert.Nil(err)
	vaultStore, err := store.NewVaultStore(persistence, codec)
	assert.Nil(err)

	uut := api.NewRouter(vaultStore)

	// 1. Create
	resp := doRequest(t, uut.Handler(), http.MethodPost, "/api/vault", map[string]string{
		"name": "Trading Bot", "service": "Alpaca", "keyValue": "abc123", "category": "",
	})
	assert.Equal(http.StatusCreated, resp.Code)
	var created models.MaskedVaultKey
	assert.Nil(json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal("Other", created.Category)
	assert.Nil(created.Notes)
	assert.Equal("****c123", created.KeyMasked)
	assert.NotContains(resp.Body.String(), "abc123")

	// 2. Create without a key value
	resp = doRequest(t, uut.Handler(), http.MethodPost, "/api/vault", map[string]string{
		"name": "Trading Bot", "service": "Alpaca",
	})
	assert.Equal(http.StatusBadRequest, resp.Code)

	// 3. Patch without a key value keeps the stored value
	resp = doRequest(t, uut.Handler(), http.MethodPatch, "/api/vault/"+created.ID, map[string]string{
		"name": "Trading Bot", "service": "Alpaca", "category": "Finance", "notes": "paper",
	})
	assert.Equal(http.StatusOK, resp.Code)
	var updated models.MaskedVaultKey
	assert.Nil(json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal("Finance", updated.Category)
	assert.Equal("****c123", updated.KeyMasked)

	// 4. List
	resp = doRequest(t, uut.Handler(), http.MethodGet, "/api/vault?category=Finance", nil)
	assert.Equal(http.StatusOK, resp.Code)
	var listed []models.MaskedVaultKey
	assert.Nil(json.Unmarshal(resp.Body.Bytes(), &listed))
	assert.Len(listed, 1)
	assert.Equal(created.ID, listed[0].ID)

	// 5. Reveal
	resp = doRequest(t, uut.Handler(), http.MethodPost, "/api/vault/"+created.ID+"/reveal", nil)
	assert.Equal(http.StatusOK, resp.Code)
	var revealed map[string]string
	assert.Nil(json.Unmarshal(resp.Body.Bytes(), &revealed))
	assert.Equal("abc123", revealed["keyValue"])

	// 6. Delete, then it is gone
	resp = doRequest(t, uut.Handler(), http.MethodDelete, "/api/vault/"+created.ID, nil)
	assert.Equal(http.StatusOK, resp.Code)
	resp = doRequest(t, uut.Handler(), http.MethodPost, "/api/vault/"+created.ID+"/reveal", nil)
	assert.Equal(http.StatusNotFound, resp.Code)
	resp = doRequest(t, uut.Handler(), http.MethodPatch, "/api/vault/"+created.ID, map[string]string{
		"name": "Trading Bot", "service": "Alpaca",
	})
	assert.Equal(http.StatusNotFound, resp.Code)

	// 7. The audit trail outlives the key
	resp = doRequest(t, uut.Handler(), http.MethodGet, "/api/vault/"+created.ID+"/events", nil)
	assert.Equal(http.StatusOK, resp.Code)
	var events []models.VaultKeyEvent
	assert.Nil(json.Unmarshal(resp.Body.Bytes(), &events))
	assert.Len(events, 4)
	expected := []models.SystemEventTypeENUMType{
		models.SystemEventTypeAddVaultKey,
		models.SystemEventTypeUpdateVaultKey,
		models.SystemEventTypeRevealVaultKey,
		models.SystemEventTypeDeleteVaultKey,
	}
	for idx, event := range events {
		assert.Equal(expected[idx], event.EventType)
		assert.Equal(created.ID, event.KeyID)
	}
	assert.NotContains(resp.Body.String(), "abc123")
}

func TestVaultKeyEvents(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	mockStore := mockstore.NewVaultStore(t)
	uut := api.NewRouter(mockStore)

	testID := uuid.NewString()

	// Case 0: pagination reaches the store
	limit := 2
	offset := 1
	mockStore.On(
		"ListKeyEvents",
		mock.Anything,
		testID,
		db.CommonListEntryQueryFilter{Limit: &limit, Offset: &offset},
		mock.Anything,
	).Return([]models.VaultKeyEvent{
		{ID: "event-1", EventType: models.SystemEventTypeRevealVaultKey, KeyID: testID, KeyName: "Trading Bot"},
	}, nil).Once()
	resp := doRequest(
		t, uut.Handler(), http.MethodGet, "/api/vault/"+testID+"/events?limit=2&offset=1", nil,
	)
	assert.Equal(http.StatusOK, resp.Code)
	var events []models.VaultKeyEvent
	assert.Nil(json.Unmarshal(resp.Body.Bytes(), &events))
	assert.Len(events, 1)
	assert.Equal(models.SystemEventTypeRevealVaultKey, events[0].EventType)

	// Case 1: not a key ID
	mockStore.On(
		"ListKeyEvents", mock.Anything, "not-a-uuid", db.CommonListEntryQueryFilter{}, mock.Anything,
	).Return(nil, fmt.Errorf("wrapped [%w]", vault.ErrInvalidInput)).Once()
	resp = doRequest(t, uut.Handler(), http.MethodGet, "/api/vault/not-a-uuid/events", nil)
	assert.Equal(http.StatusBadRequest, resp.Code)

	// Case 2: bad pagination never reaches the store
	resp = doRequest(t, uut.Handler(), http.MethodGet, "/api/vault/"+testID+"/events?limit=x", nil)
	assert.Equal(http.StatusBadRequest, resp.Code)
}

func TestRequestIDHeader(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	uut := api.NewRouter(mockstore.NewVaultStore(t))

	request := func(requestID string) string {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		if requestID != "" {
			req.Header.Set("X-Request-ID", requestID)
		}
		resp := httptest.NewRecorder()
		uut.Handler().ServeHTTP(resp, req)
		assert.Equal(http.StatusOK, resp.Code)
		return resp.Header().Get("X-Request-ID")
	}

	// Case 0: caller UUID is echoed
	callerID := uuid.NewString()
	assert.Equal(callerID, request(callerID))

	// Case 1: none supplied
	generated := request("")
	_, err := uuid.Parse(generated)
	assert.Nil(err)

	// Case 2: not a UUID is replaced
	for _, supplied := range []string{
		"not-a-request-id",
		strings.Repeat("a", 4096),
		"<script>alert(1)</script>",
	} {
		returned := request(supplied)
		assert.NotEqual(supplied, returned)
		_, err := uuid.Parse(returned)
		assert.Nil(err)
	}
}
