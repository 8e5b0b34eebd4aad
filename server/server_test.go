package server

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godwoken/gw-emulator/programs/meta"
	"github.com/godwoken/gw-emulator/types"
	"github.com/godwoken/gw-emulator/utils/unittest"
)

const userID types.AccountID = 3

func newTestServer(t *testing.T, conf *Config) *EmulatorServer {
	conf.GenesisScripts = [][]byte{unittest.UserScriptFixture(1)}

	server := NewEmulatorServer(logrus.New(), conf)
	require.NotNil(t, server)
	return server
}

func request(t *testing.T, server *EmulatorServer, method, path string, body interface{}) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	w := httptest.NewRecorder()
	server.admin.Server().Handler.ServeHTTP(w, httptest.NewRequest(method, path, &payload))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.NewDecoder(w.Body).Decode(v))
}

func TestSanitizeConfig(t *testing.T) {

	t.Parallel()

	conf := sanitizeConfig(&Config{})

	assert.Equal(t, defaultAdminPort, conf.AdminPort)
	assert.Equal(t, defaultHTTPHeaders, conf.HTTPHeaders)
	assert.Equal(t, defaultDBGCInterval, conf.DBGCInterval)
	assert.Equal(t, defaultDBGCRatio, conf.DBGCDiscardRatio)
	assert.Equal(t, defaultLivenessCheckTolerance, conf.LivenessCheckTolerance)
	assert.NotNil(t, conf.Logger)
}

func TestGenesisAccounts(t *testing.T) {

	t.Parallel()

	server := newTestServer(t, &Config{})

	w := request(t, server, http.MethodGet, "/emulator/accounts/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var account types.Account
	decode(t, w, &account)
	assert.Equal(t, MetaAccountID, account.ID)
	assert.Equal(t, meta.CodeHash, account.CodeHash)

	w = request(t, server, http.MethodGet, "/emulator/accounts/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &account)
	assert.Equal(t, unittest.UserCodeHash, account.CodeHash)
	assert.Equal(t, types.HashData(unittest.UserScriptFixture(1)), account.ScriptHash)

	w = request(t, server, http.MethodGet, "/emulator/accounts/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(t, server, http.MethodGet, "/emulator/blocks/0", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var block BlockResponse
	decode(t, w, &block)
	assert.Equal(t, uint64(0), block.Number)
	assert.Empty(t, block.TransactionHashes)
}

func TestTransactions(t *testing.T) {

	t.Parallel()

	server := newTestServer(t, &Config{})

	script := unittest.UserScriptFixture(2)
	tx := TransactionRequest{
		FromID: uint32(userID),
		ToID:   uint32(MetaAccountID),
		Nonce:  0,
		Args:   "0x" + hex.EncodeToString(script),
	}

	w := request(t, server, http.MethodPost, "/emulator/transactions", tx)
	require.Equal(t, http.StatusCreated, w.Code)

	var sent TransactionResponse
	decode(t, w, &sent)

	t.Run("Result", func(t *testing.T) {
		w := request(t, server, http.MethodGet, "/emulator/transactions/"+sent.Hash.Hex(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var result TransactionResultResponse
		decode(t, w, &result)
		assert.Equal(t, sent.Hash, result.Hash)
		assert.Equal(t, uint64(1), result.BlockNumber)
		assert.Equal(t, int32(0), result.ExitCode)
		assert.Empty(t, result.Error)
		assert.Equal(t, "0x04000000", result.ReturnData)
	})

	t.Run("AutoMined", func(t *testing.T) {
		w := request(t, server, http.MethodGet, "/emulator/blocks/latest", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var block BlockResponse
		decode(t, w, &block)
		assert.Equal(t, uint64(1), block.Number)
		assert.Equal(t, []types.Hash{sent.Hash}, block.TransactionHashes)
	})

	t.Run("AccountCreated", func(t *testing.T) {
		w := request(t, server, http.MethodGet, "/emulator/accounts/4", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var account types.Account
		decode(t, w, &account)
		assert.Equal(t, types.HashData(script), account.ScriptHash)
	})

	t.Run("Duplicate", func(t *testing.T) {
		w := request(t, server, http.MethodPost, "/emulator/transactions", tx)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("WrongNonce", func(t *testing.T) {
		wrong := tx
		wrong.Nonce = 5

		w := request(t, server, http.MethodPost, "/emulator/transactions", wrong)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var body ErrorResponse
		decode(t, w, &body)
		assert.Contains(t, body.Error, "invalid nonce")

		hash := types.Transaction{
			FromID: userID,
			ToID:   MetaAccountID,
			Nonce:  5,
			Args:   script,
		}.Hash()
		w = request(t, server, http.MethodGet, "/emulator/transactions/"+hash.Hex(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("NoProgram", func(t *testing.T) {
		w := request(t, server, http.MethodPost, "/emulator/transactions", TransactionRequest{
			FromID: uint32(userID),
			ToID:   uint32(userID),
			Nonce:  1,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnknownSender", func(t *testing.T) {
		unknown := tx
		unknown.FromID = 99

		w := request(t, server, http.MethodPost, "/emulator/transactions", unknown)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("InvalidArgs", func(t *testing.T) {
		invalid := tx
		invalid.Args = "0xzz"

		w := request(t, server, http.MethodPost, "/emulator/transactions", invalid)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnknownResult", func(t *testing.T) {
		w := request(t, server, http.MethodGet, "/emulator/transactions/"+unittest.HashFixture(0xAA).Hex(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBlocks(t *testing.T) {

	t.Parallel()

	server := newTestServer(t, &Config{BlockTime: time.Hour})

	w := request(t, server, http.MethodPost, "/emulator/accounts", AccountRequest{
		Script: hex.EncodeToString(unittest.UserScriptFixture(7)),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var account types.Account
	decode(t, w, &account)
	assert.Equal(t, types.AccountID(4), account.ID)

	// pending until the block is committed
	w = request(t, server, http.MethodGet, "/emulator/accounts/4", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(t, server, http.MethodPost, "/emulator/blocks", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var block BlockResponse
	decode(t, w, &block)
	assert.Equal(t, uint64(1), block.Number)

	w = request(t, server, http.MethodGet, "/emulator/blocks/0", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var genesis BlockResponse
	decode(t, w, &genesis)
	assert.Equal(t, genesis.Hash, block.ParentHash)

	w = request(t, server, http.MethodGet, "/emulator/accounts/4", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, server, http.MethodGet, "/emulator/blocks/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(t, server, http.MethodPost, "/emulator/accounts", AccountRequest{
		Script: hex.EncodeToString(unittest.UserScriptFixture(7)),
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = request(t, server, http.MethodPost, "/emulator/accounts", AccountRequest{Script: "0x0102"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBlocksTicker(t *testing.T) {

	t.Parallel()

	server := newTestServer(t, &Config{BlockTime: 10 * time.Millisecond})
	require.NotNil(t, server.blocks)

	go func() {
		_ = server.blocks.Start()
	}()
	defer server.blocks.Stop()

	require.Eventually(t, func() bool {
		block, err := server.Blockchain().GetLatestBlock()
		return err == nil && block.Number >= 2
	}, time.Second, 10*time.Millisecond)
}

func TestAdminEndpoints(t *testing.T) {

	t.Parallel()

	server := newTestServer(t, &Config{})

	t.Run("Liveness", func(t *testing.T) {
		w := request(t, server, http.MethodGet, LivenessPath, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Metrics", func(t *testing.T) {
		w := request(t, server, http.MethodGet, MetricsPath, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("CORS", func(t *testing.T) {
		w := request(t, server, http.MethodOptions, "/emulator/blocks/latest", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("RequestID", func(t *testing.T) {
		w := request(t, server, http.MethodGet, "/emulator/blocks/latest", nil)
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

		req := httptest.NewRequest(http.MethodGet, "/emulator/blocks/latest", nil)
		req.Header.Set(RequestIDHeader, "probe")
		w = httptest.NewRecorder()
		server.admin.Server().Handler.ServeHTTP(w, req)
		assert.Equal(t, "probe", w.Header().Get(RequestIDHeader))
	})
}

func TestBadgerStorage(t *testing.T) {

	t.Parallel()

	store, err := NewBadgerStorage(logrus.New(), "", time.Millisecond, defaultDBGCRatio, false)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- store.Start()
	}()

	time.Sleep(5 * time.Millisecond)
	store.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("storage routine did not stop")
	}
}
