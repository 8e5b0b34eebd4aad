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


// Package server runs an emulated GW chain behind an admin HTTP server.
package server

import (
	"fmt"
	"time"

	"github.com/psiemens/graceland"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"

	emulator "github.com/godwoken/gw-emulator"
	"github.com/godwoken/gw-emulator/programs/meta"
	"github.com/godwoken/gw-emulator/programs/sudt"
	"github.com/godwoken/gw-emulator/storage"
	"github.com/godwoken/gw-emulator/types"
)

// EmulatorServer is a local server that runs a GW Emulator instance.
//
// The server wraps an emulated blockchain instance with the admin HTTP API.
type EmulatorServer struct {
	logger     *logrus.Logger
	config     *Config
	group      *graceland.Group
	liveness   *LivenessTicker
	storage    Storage
	admin      *HTTPServer
	blocks     graceland.Routine
	blockchain *emulator.Blockchain
}

const (
	defaultAdminPort              = 8080
	defaultLivenessCheckTolerance = time.Second
	defaultDBGCInterval           = time.Minute * 5
	defaultDBGCRatio              = 0.5
)

var (
	defaultHTTPHeaders = []HTTPHeader{
		{
			Key:   "Access-Control-Allow-Origin",
			Value: "*",
		},
		{
			Key:   "Access-Control-Allow-Methods",
			Value: "POST, GET, OPTIONS, PUT, DELETE",
		},
		{
			Key:   "Access-Control-Allow-Headers",
			Value: "*",
		},
	}
)

// Config is the configuration for an emulator server.
type Config struct {
	AdminPort   int
	HTTPHeaders []HTTPHeader
	// BlockTime is the interval between committed blocks. When 0 every
	// submitted transaction is committed in its own block.
	BlockTime time.Duration
	// Persist stores the chain in Badger at DBPath.
	Persist bool
	// DBPath is the path to the Badger database on disk.
	DBPath string
	// DBGCInterval is the time interval at which to garbage collect the Badger value log.
	DBGCInterval time.Duration
	// DBGCDiscardRatio is the ratio of space to reclaim during a Badger garbage collection run.
	DBGCDiscardRatio float64
	// LivenessCheckTolerance is the time interval in which the server must respond to liveness probes.
	LivenessCheckTolerance time.Duration
	// Host to listen on for the admin server
	Host string
	// RedisURL selects the Redis storage backend.
	RedisURL string
	// SqliteURL selects the SQLite storage backend.
	SqliteURL string
	// BlockHashHistory bounds how far back contracts may read block hashes. 0 is unbounded.
	BlockHashHistory uint64
	// AggregatorID is the account credited as block producer. 0 means none.
	AggregatorID types.AccountID
	// GenesisScripts are created in order after the meta and token accounts.
	GenesisScripts [][]byte
	// Logger receives the engine's structured logs. Nil discards them.
	Logger *zerolog.Logger
}

type listener interface {
	Listen() error
}

// NewEmulatorServer creates a new instance of a GW Emulator server.
func NewEmulatorServer(logger *logrus.Logger, conf *Config) *EmulatorServer {
	conf = sanitizeConfig(conf)
	store, err := configureStorage(logger, conf)
	if err != nil {
		logger.WithError(err).Error("❗  Failed to configure storage")
		return nil
	}

	blockchain, err := configureBlockchain(conf, store.Store())
	if err != nil {
		logger.WithError(err).Error("❗  Failed to configure emulated blockchain")
		return nil
	}

	for name, id := range map[string]types.AccountID{
		"Meta": MetaAccountID,
		"SUDT": TokenAccountID,
	} {
		logger.WithFields(logrus.Fields{name: id}).Infof("📜  GW contract")
	}

	livenessTicker := NewLivenessTicker(conf.LivenessCheckTolerance)

	server := &EmulatorServer{
		logger:     logger,
		config:     conf,
		storage:    store,
		liveness:   livenessTicker,
		blockchain: blockchain,
	}

	server.admin = NewAdminServer(logger, blockchain, livenessTicker, conf.Host, conf.AdminPort, conf.HTTPHeaders)

	// only create blocks ticker if block time > 0
	if conf.BlockTime > 0 {
		server.blocks = NewBlocksTicker(logger, blockchain, livenessTicker.Collector(), conf.BlockTime)
	}

	return server
}

// Blockchain returns the emulated chain the server drives.
func (s *EmulatorServer) Blockchain() *emulator.Blockchain {
	return s.blockchain
}

// Listen starts listening for incoming connections.
//
// After this non-blocking function executes we can treat the
// emulator server as ready.
func (s *EmulatorServer) Listen() error {
	for _, lis := range []listener{s.admin} {
		err := lis.Listen()
		if err != nil { // fail quick
			return err
		}
	}

	return nil
}

// Start starts the GW Emulator server.
//
// This is a blocking call that listens and starts the emulator server.
func (s *EmulatorServer) Start() {
	s.Stop()

	s.group = graceland.NewGroup()
	s.group.Add(s.liveness)

	s.logger.
		WithField("port", s.config.AdminPort).
		Infof("🌱  Starting admin server on port %d", s.config.AdminPort)
	s.group.Add(s.admin)

	// only start blocks ticker if it exists
	if s.blocks != nil {
		s.group.Add(s.blocks)
	}

	// routines are shut down in insertion order, so database is added last
	s.group.Add(s.storage)

	err := s.group.Start()
	if err != nil {
		s.logger.WithError(err).Error("❗  Server error")
	}

	s.Stop()
}

func (s *EmulatorServer) Stop() {
	if s.group == nil {
		return
	}

	s.group.Stop()
	s.group = nil

	s.logger.Info("🛑  Server stopped")
}

func configureStorage(logger *logrus.Logger, conf *Config) (Storage, error) {
	switch {
	case conf.RedisURL != "":
		return NewRedisStorage(logger, conf.RedisURL)
	case conf.SqliteURL != "":
		return NewSqliteStorage(logger, conf.SqliteURL)
	case conf.Persist:
		return NewBadgerStorage(logger, conf.DBPath, conf.DBGCInterval, conf.DBGCDiscardRatio, true)
	default:
		return NewMemoryStorage(), nil
	}
}

// Genesis accounts created by every server, ahead of the configured ones.
const (
	MetaAccountID  types.AccountID = 1
	TokenAccountID types.AccountID = 2
)

// genesisScripts returns the meta contract account, the native token account
// and the configured accounts, in id order.
func genesisScripts(conf *Config) [][]byte {
	scripts := [][]byte{
		types.Script{CodeHash: meta.CodeHash, HashType: types.ScriptHashTypeType}.Serialize(),
		types.Script{CodeHash: sudt.CodeHash, HashType: types.ScriptHashTypeType, Args: types.ZeroHash.Bytes()}.Serialize(),
	}
	return append(scripts, conf.GenesisScripts...)
}

func configureBlockchain(conf *Config, store storage.Store) (*emulator.Blockchain, error) {
	registry := emulator.NewRegistry()
	meta.Register(registry)
	sudt.Register(registry)

	options := []emulator.Option{
		emulator.WithStore(store),
		emulator.WithLogger(*conf.Logger),
		emulator.WithPrograms(registry),
		emulator.WithBlockHashHistory(conf.BlockHashHistory),
		emulator.WithAggregator(conf.AggregatorID),
		emulator.WithGenesisScripts(genesisScripts(conf)...),
	}

	if conf.BlockTime == 0 {
		options = append(options, emulator.WithAutoMine())
	}

	blockchain, err := emulator.New(options...)
	if err != nil {
		return nil, fmt.Errorf("could not create blockchain: %w", err)
	}

	return blockchain, nil
}

func sanitizeConfig(conf *Config) *Config {
	if conf.AdminPort == 0 {
		conf.AdminPort = defaultAdminPort
	}

	if conf.HTTPHeaders == nil {
		conf.HTTPHeaders = defaultHTTPHeaders
	}

	if conf.DBGCInterval == 0 {
		conf.DBGCInterval = defaultDBGCInterval
	}

	if conf.DBGCDiscardRatio == 0 {
		conf.DBGCDiscardRatio = defaultDBGCRatio
	}

	if conf.LivenessCheckTolerance == 0 {
		conf.LivenessCheckTolerance = defaultLivenessCheckTolerance
	}

	if conf.Logger == nil {
		logger := zerolog.Nop()
		conf.Logger = &logger
	}

	return conf
}
