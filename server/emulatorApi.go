/*
 * GW Emulator
 *
 * Copyright 2019-2022 Dapper Labs, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package server

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	emulator "github.com/godwoken/gw-emulator"
	"github.com/godwoken/gw-emulator/types"
)

type TransactionRequest struct {
	FromID uint32 `json:"fromId"`
	ToID   uint32 `json:"toId"`
	Nonce  uint32 `json:"nonce"`
	// Args is hex encoded, with or without a 0x prefix.
	Args string `json:"args"`
}

type TransactionResponse struct {
	Hash types.Hash `json:"hash"`
}

type LogResponse struct {
	AccountID   uint32 `json:"accountId"`
	ServiceFlag uint8  `json:"serviceFlag"`
	Data        string `json:"data"`
}

type TransactionResultResponse struct {
	Hash        types.Hash    `json:"hash"`
	BlockNumber uint64        `json:"blockNumber"`
	Index       uint32        `json:"index"`
	ExitCode    int32         `json:"exitCode"`
	Error       string        `json:"error,omitempty"`
	ReturnData  string        `json:"returnData"`
	Logs        []LogResponse `json:"logs"`
}

type BlockResponse struct {
	Number            uint64       `json:"number"`
	Hash              types.Hash   `json:"hash"`
	ParentHash        types.Hash   `json:"parentHash"`
	Timestamp         uint64       `json:"timestamp"`
	AggregatorID      uint32       `json:"aggregatorId"`
	TransactionHashes []types.Hash `json:"transactionHashes"`
}

type AccountRequest struct {
	// Script is the hex encoded molecule script of the new account.
	Script string `json:"script"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// EmulatorAPIServer serves the JSON API used to drive the emulated chain.
type EmulatorAPIServer struct {
	router     *mux.Router
	logger     *logrus.Logger
	blockchain *emulator.Blockchain
}

func NewEmulatorAPIServer(logger *logrus.Logger, blockchain *emulator.Blockchain) *EmulatorAPIServer {
	router := mux.NewRouter().StrictSlash(true)
	r := &EmulatorAPIServer{
		router:     router,
		logger:     logger,
		blockchain: blockchain,
	}

	router.HandleFunc("/emulator/transactions", r.SendTransaction).Methods(http.MethodPost)
	router.HandleFunc("/emulator/transactions/{hash}", r.TransactionResult).Methods(http.MethodGet)

	router.HandleFunc("/emulator/blocks", r.CommitBlock).Methods(http.MethodPost)
	router.HandleFunc("/emulator/blocks/latest", r.LatestBlock).Methods(http.MethodGet)
	router.HandleFunc("/emulator/blocks/{number:[0-9]+}", r.BlockByNumber).Methods(http.MethodGet)

	router.HandleFunc("/emulator/accounts", r.CreateAccount).Methods(http.MethodPost)
	router.HandleFunc("/emulator/accounts/{id:[0-9]+}", r.Account).Methods(http.MethodGet)

	return r
}

func (m EmulatorAPIServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.router.ServeHTTP(w, r)
}

func (m EmulatorAPIServer) SendTransaction(w http.ResponseWriter, r *http.Request) {
	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		m.badRequest(w, fmt.Errorf("invalid transaction: %w", err))
		return
	}

	args, err := decodeHex(req.Args)
	if err != nil {
		m.badRequest(w, fmt.Errorf("invalid transaction args: %w", err))
		return
	}

	tx := types.Transaction{
		FromID: types.AccountID(req.FromID),
		ToID:   types.AccountID(req.ToID),
		Nonce:  req.Nonce,
		Args:   args,
	}

	if err := m.blockchain.SendTransaction(tx); err != nil {
		m.writeError(w, r, err)
		return
	}

	m.writeJSON(w, http.StatusCreated, TransactionResponse{Hash: tx.Hash()})
}

func (m EmulatorAPIServer) TransactionResult(w http.ResponseWriter, r *http.Request) {
	hash, err := types.HexToHash(mux.Vars(r)["hash"])
	if err != nil {
		m.badRequest(w, err)
		return
	}

	result, err := m.blockchain.GetTransactionResult(hash)
	if err != nil {
		m.writeError(w, r, err)
		return
	}

	logs := make([]LogResponse, len(result.Logs))
	for i, record := range result.Logs {
		logs[i] = LogResponse{
			AccountID:   uint32(record.AccountID),
			ServiceFlag: record.ServiceFlag,
			Data:        encodeHex(record.Data),
		}
	}

	m.writeJSON(w, http.StatusOK, TransactionResultResponse{
		Hash:        result.TransactionHash,
		BlockNumber: result.BlockNumber,
		Index:       result.Index,
		ExitCode:    result.ExitCode,
		Error:       result.ErrorMessage,
		ReturnData:  encodeHex(result.ReturnData),
		Logs:        logs,
	})
}

func (m EmulatorAPIServer) CommitBlock(w http.ResponseWriter, r *http.Request) {
	block, _, err := m.blockchain.ExecuteAndCommitBlock()
	if err != nil {
		m.writeError(w, r, err)
		return
	}

	m.writeJSON(w, http.StatusCreated, blockResponse(block))
}

func (m EmulatorAPIServer) LatestBlock(w http.ResponseWriter, r *http.Request) {
	block, err := m.blockchain.GetLatestBlock()
	if err != nil {
		m.writeError(w, r, err)
		return
	}

	m.writeJSON(w, http.StatusOK, blockResponse(block))
}

func (m EmulatorAPIServer) BlockByNumber(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.ParseUint(mux.Vars(r)["number"], 10, 64)
	if err != nil {
		m.badRequest(w, err)
		return
	}

	block, err := m.blockchain.GetBlockByNumber(number)
	if err != nil {
		m.writeError(w, r, err)
		return
	}

	m.writeJSON(w, http.StatusOK, blockResponse(block))
}

func (m EmulatorAPIServer) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		m.badRequest(w, fmt.Errorf("invalid account: %w", err))
		return
	}

	script, err := decodeHex(req.Script)
	if err != nil {
		m.badRequest(w, fmt.Errorf("invalid account script: %w", err))
		return
	}

	id, err := m.blockchain.CreateAccount(script)
	if err != nil {
		m.writeError(w, r, err)
		return
	}

	// the account lives in the pending block until it is committed
	account := types.Account{
		ID:         id,
		ScriptHash: types.HashData(script),
	}
	if decoded, err := types.DecodeScript(script); err == nil {
		account.CodeHash = decoded.CodeHash
	}

	m.writeJSON(w, http.StatusCreated, account)
}

func (m EmulatorAPIServer) Account(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		m.badRequest(w, err)
		return
	}

	account, err := m.blockchain.GetAccount(types.AccountID(id))
	if err != nil {
		m.writeError(w, r, err)
		return
	}

	m.writeJSON(w, http.StatusOK, account)
}

func (m EmulatorAPIServer) badRequest(w http.ResponseWriter, err error) {
	m.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

func (m EmulatorAPIServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound     emulator.NotFoundError
		duplicate    *emulator.DuplicateTransactionError
		invalid      *emulator.InvalidTransactionError
		invalidNonce *emulator.InvalidNonceError
		noProgram    *emulator.ProgramNotFoundError
		faulted      *emulator.TransactionFaultedError
		midExecution *emulator.PendingBlockMidExecutionError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &invalidNonce),
		errors.As(err, &noProgram):
		status = http.StatusBadRequest
	case errors.As(err, &faulted):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.As(err, &duplicate),
		errors.As(err, &midExecution),
		errors.Is(err, types.ErrDuplicateAccount):
		status = http.StatusConflict
	case errors.As(err, &invalid),
		errors.Is(err, types.ErrInvalidScript):
		status = http.StatusBadRequest
	default:
		m.logger.
			WithError(err).
			WithField("requestID", r.Header.Get(RequestIDHeader)).
			Errorf("❗  %s %s failed", r.Method, r.URL.Path)
	}

	m.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (m EmulatorAPIServer) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		m.logger.WithError(err).Error("❗  Failed to encode response")
	}
}

func blockResponse(block *types.Block) BlockResponse {
	hashes := block.TransactionHashes
	if hashes == nil {
		hashes = []types.Hash{}
	}

	return BlockResponse{
		Number:            block.Number,
		Hash:              block.Hash(),
		ParentHash:        block.ParentHash,
		Timestamp:         block.Timestamp,
		AggregatorID:      uint32(block.AggregatorID),
		TransactionHashes: hashes,
	}
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}

func encodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
