package utils

import (
	"fmt"

	"github.com/logrusorgru/aurora"
	"github.com/rs/zerolog"

	"github.com/godwoken/gw-emulator/types"
)

func PrintTransactionResult(logger *zerolog.Logger, result *types.TransactionResult) {
	switch {
	case result.Faulted:
		logger.Warn().
			Str("txHash", result.TransactionHash.String()).
			Int32("status", result.ExitCode).
			Msg("💥  Transaction faulted")
	case result.Succeeded():
		logger.Info().
			Str("txHash", result.TransactionHash.String()).
			Int("returnDataLen", len(result.ReturnData)).
			Msg("⭐  Transaction executed")
	default:
		logger.Warn().
			Str("txHash", result.TransactionHash.String()).
			Int32("exitCode", result.ExitCode).
			Msg("❗  Transaction reverted")
	}

	for _, log := range result.Logs {
		logger.Debug().Msgf(
			"%s %s",
			logPrefix("LOG", result.TransactionHash, aurora.BlueFg),
			describeLog(log),
		)
	}

	if result.Error != nil {
		logger.Warn().Msgf(
			"%s %s",
			logPrefix("ERR", result.TransactionHash, aurora.RedFg),
			result.Error.Error(),
		)
	}
}

// describeLog renders well-known payloads decoded and anything else raw.
func describeLog(record types.LogRecord) string {
	parsed, err := types.ParseLog(record)
	if err != nil {
		return record.String()
	}
	switch log := parsed.(type) {
	case *types.SUDTTransferLog:
		return fmt.Sprintf("sudt=%d from=%d to=%d amount=%s", log.SUDTID, log.From, log.To, log.Amount.ToBig().String())
	default:
		return fmt.Sprintf("%+v", parsed)
	}
}

func logPrefix(prefix string, hash types.Hash, color aurora.Color) string {
	prefix = aurora.Colorize(prefix, color|aurora.BoldFm).String()
	shortID := fmt.Sprintf("[%s]", hash.Hex()[:6])
	shortID = aurora.Colorize(shortID, aurora.FaintFm).String()
	return fmt.Sprintf("%s %s", prefix, shortID)
}
