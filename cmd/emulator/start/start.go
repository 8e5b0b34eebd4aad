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


package start

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/psiemens/sconfig"
	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/godwoken/gw-emulator/server"
	"github.com/godwoken/gw-emulator/types"
)

type Config struct {
	AdminPort        int           `default:"8080" flag:"admin-port,p" info:"port to run the admin API"`
	Host             string        `default:"" flag:"host" info:"host to listen on for the admin API (default: all interfaces)"`
	Verbose          bool          `default:"false" flag:"verbose,v" info:"enable verbose logging"`
	LogFormat        string        `default:"text" flag:"log-format" info:"logging output format. Valid values (text, JSON)"`
	BlockTime        time.Duration `flag:"block-time,b" info:"time between committed blocks, e.g. '300ms' or '2s'. Commits every transaction when unset"`
	Persist          bool          `default:"false" flag:"persist" info:"enable persistent storage"`
	DBPath           string        `default:"./gwdb" flag:"dbpath" info:"path to database directory"`
	RedisURL         string        `default:"" flag:"redis-url" info:"redis-server URL for persisting redis storage backend ( redis://[[username:]password@]host[:port][/database] ) "`
	SqliteURL        string        `default:"" flag:"sqlite-url" info:"sqlite db URL for persisting sqlite storage backend "`
	BlockHashHistory uint64        `default:"256" flag:"block-hash-history" info:"number of recent block hashes visible to contracts, 0 for all"`
	Aggregator       int           `default:"0" flag:"aggregator" info:"account id credited as block producer, 0 for none"`
	GenesisScripts   string        `default:"" flag:"genesis-scripts" info:"comma separated hex encoded scripts of extra genesis accounts"`
}

const EnvPrefix = "GW"

var conf Config

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Starts the GW emulator server",
		Run: func(cmd *cobra.Command, args []string) {
			logger := initLogger(conf.Verbose)
			serverLogger := initServerLogger(conf.Verbose)

			scripts, err := parseGenesisScripts(conf.GenesisScripts)
			if err != nil {
				Exit(1, err.Error())
			}

			if conf.Aggregator < 0 {
				Exit(1, "❗  --aggregator must be an account id")
			}

			logger.Info().
				Int("aggregator", conf.Aggregator).
				Int("genesisAccounts", len(scripts)).
				Uint64("blockHashHistory", conf.BlockHashHistory).
				Msg("⚙️  Using emulator configuration")

			serverConf := &server.Config{
				AdminPort: conf.AdminPort,
				// TODO: allow headers to be parsed from environment
				HTTPHeaders:      nil,
				BlockTime:        conf.BlockTime,
				Persist:          conf.Persist,
				DBPath:           conf.DBPath,
				Host:             conf.Host,
				RedisURL:         conf.RedisURL,
				SqliteURL:        conf.SqliteURL,
				BlockHashHistory: conf.BlockHashHistory,
				AggregatorID:     types.AccountID(conf.Aggregator),
				GenesisScripts:   scripts,
				Logger:           logger,
			}

			emu := server.NewEmulatorServer(serverLogger, serverConf)
			if emu == nil {
				Exit(-1, "")
			}

			emu.Start()
		},
	}

	initConfig(cmd)

	return cmd
}

func initLogger(verbose bool) *zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.MessageFieldName = "msg"

	switch strings.ToLower(conf.LogFormat) {
	case "json":
		logger := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
		return &logger
	default:
		writer := zerolog.ConsoleWriter{Out: os.Stdout}
		writer.FormatMessage = func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("%-44s", i)
		}
		logger := zerolog.New(writer).With().Timestamp().Logger().Level(level)
		return &logger
	}
}

func initServerLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if strings.ToLower(conf.LogFormat) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

func initConfig(cmd *cobra.Command) {
	err := sconfig.New(&conf).
		FromEnvironment(EnvPrefix).
		BindFlags(cmd.PersistentFlags()).
		Parse()
	if err != nil {
		log.Fatal(err)
	}
}

func parseGenesisScripts(value string) ([][]byte, error) {
	if value == "" {
		return nil, nil
	}

	var scripts [][]byte
	for _, s := range strings.Split(value, ",") {
		script, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
		if err != nil {
			return nil, fmt.Errorf("❗  Failed to decode genesis script %q: %w", s, err)
		}
		if _, err := types.DecodeScript(script); err != nil {
			return nil, fmt.Errorf("❗  Invalid genesis script %q: %w", s, err)
		}
		scripts = append(scripts, script)
	}

	return scripts, nil
}

func Exit(code int, msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
}
