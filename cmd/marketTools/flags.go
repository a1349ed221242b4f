package main

import (
	"github.com/urfave/cli/v2"

	"github.com/modelchain/MarketLedger/log"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "config file path",
		Value: "config.toml",
	}
	programFlag = &cli.StringFlag{
		Name:  "program",
		Usage: "marketplace program address",
	}
	creatorFlag = &cli.StringFlag{
		Name:  "creator",
		Usage: "model creator address",
	}
	modelFlag = &cli.StringFlag{
		Name:  "model",
		Usage: "model account address",
	}
	userFlag = &cli.StringFlag{
		Name:  "user",
		Usage: "subscriber address",
	}
	nameFlag = &cli.StringFlag{
		Name:  "name",
		Usage: "model name",
	}
	metadataFlag = &cli.StringFlag{
		Name:  "metadata",
		Usage: "model metadata json",
		Value: "{}",
	}
	cidFlag = &cli.StringFlag{
		Name:  "cid",
		Usage: "model weights cid root",
	}
	parentFlag = &cli.StringFlag{
		Name:  "parent",
		Usage: "parent model address (optional)",
	}
	amountFlag = &cli.StringFlag{
		Name:  "amount",
		Usage: "payment amount in minor units",
	}
	dataFlag = &cli.StringFlag{
		Name:  "data",
		Usage: "hex encoded account data",
	}
	privKeyFlag = &cli.StringFlag{
		Name:  "privkey",
		Usage: "base58 encoded ed25519 private key to sign with",
	}
	verbosityFlag = &cli.Uint64Flag{
		Name:  "verbosity",
		Usage: "log verbosity (0:panic, 1:fatal, 2:error, 3:warn, 4:info, 5:debug, 6:trace)",
		Value: 4,
	}
	jsonLogFlag = &cli.BoolFlag{
		Name:  "jsonlog",
		Usage: "output log in json format",
	}
)

func setLogger(ctx *cli.Context) {
	log.SetLogger(uint32(ctx.Uint64(verbosityFlag.Name)), ctx.Bool(jsonLogFlag.Name), !ctx.Bool(jsonLogFlag.Name))
}
