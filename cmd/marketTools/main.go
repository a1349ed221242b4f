/*
marketTools provides command line helpers for the model marketplace
ledger: derive program addresses, encode instruction data, trace model
lineage, preview royalty splits and submit transactions.
*/
package main

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dfuse-io/solana-go"
	"github.com/urfave/cli/v2"

	"github.com/modelchain/MarketLedger/common"
	"github.com/modelchain/MarketLedger/log"
	"github.com/modelchain/MarketLedger/market"
	"github.com/modelchain/MarketLedger/params"
)

func main() {
	app := &cli.App{
		Name:  "marketTools",
		Usage: "model marketplace ledger tools",
		Flags: []cli.Flag{
			verbosityFlag,
			jsonLogFlag,
		},
		Commands: []*cli.Command{
			deriveAddrCommand,
			encodeCreateCommand,
			decodeAccountCommand,
			traceLineageCommand,
			royaltySplitCommand,
			registerCommand,
			purchaseCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("run marketTools failed: %v", err)
	}
}

var deriveAddrCommand = &cli.Command{
	Action:    deriveAddr,
	Name:      "deriveaddr",
	Usage:     "derive model or subscription receipt address",
	ArgsUsage: " ",
	Description: `
derive the model address from --program --creator --name,
or the receipt address from --program --model --user
`,
	Flags: []cli.Flag{
		programFlag,
		creatorFlag,
		nameFlag,
		modelFlag,
		userFlag,
	},
}

func deriveAddr(ctx *cli.Context) error {
	setLogger(ctx)
	programID, err := solana.PublicKeyFromBase58(ctx.String(programFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid program address: %v", err)
	}
	var addr solana.PublicKey
	var bump uint8
	switch {
	case ctx.IsSet(creatorFlag.Name) && ctx.IsSet(nameFlag.Name):
		creator, err := solana.PublicKeyFromBase58(ctx.String(creatorFlag.Name))
		if err != nil {
			return fmt.Errorf("invalid creator address: %v", err)
		}
		addr, bump, err = market.ModelAddress(programID, creator, ctx.String(nameFlag.Name))
		if err != nil {
			return err
		}
	case ctx.IsSet(modelFlag.Name) && ctx.IsSet(userFlag.Name):
		model, err := solana.PublicKeyFromBase58(ctx.String(modelFlag.Name))
		if err != nil {
			return fmt.Errorf("invalid model address: %v", err)
		}
		user, err := solana.PublicKeyFromBase58(ctx.String(userFlag.Name))
		if err != nil {
			return fmt.Errorf("invalid user address: %v", err)
		}
		addr, bump, err = market.ReceiptAddress(programID, model, user)
		if err != nil {
			return err
		}
	default:
		return errors.New("need either --creator and --name, or --model and --user")
	}
	fmt.Printf("address: %v\nbump: %v\n", addr.String(), bump)
	return nil
}

var encodeCreateCommand = &cli.Command{
	Action:    encodeCreate,
	Name:      "encodecreate",
	Usage:     "encode create_model instruction data",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		nameFlag,
		metadataFlag,
		cidFlag,
		parentFlag,
	},
}

func encodeCreate(ctx *cli.Context) error {
	setLogger(ctx)
	var parent *solana.PublicKey
	if ctx.IsSet(parentFlag.Name) {
		p, err := solana.PublicKeyFromBase58(ctx.String(parentFlag.Name))
		if err != nil {
			return fmt.Errorf("invalid parent address: %v", err)
		}
		parent = &p
	}
	data := market.EncodeCreateModel(
		ctx.String(nameFlag.Name),
		ctx.String(metadataFlag.Name),
		ctx.String(cidFlag.Name),
		parent)
	fmt.Println(common.ToHex(data))
	return nil
}

var decodeAccountCommand = &cli.Command{
	Action:    decodeAccount,
	Name:      "decodeaccount",
	Usage:     "decode raw model account bytes",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		dataFlag,
	},
}

func decodeAccount(ctx *cli.Context) error {
	setLogger(ctx)
	data, err := common.FromHex(ctx.String(dataFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid hex data: %v", err)
	}
	record, err := market.DecodeModelAccount(data)
	if err != nil {
		return err
	}
	bs, _ := json.MarshalIndent(record, "", "  ")
	fmt.Println(string(bs))
	return nil
}

var traceLineageCommand = &cli.Command{
	Action:    traceLineage,
	Name:      "tracelineage",
	Usage:     "walk a model's parent chain on the ledger",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		configFileFlag,
		modelFlag,
	},
}

func newMarketFromFlags(ctx *cli.Context) (*market.Market, error) {
	config := params.LoadConfig(ctx.String(configFileFlag.Name))
	return market.NewMarket(config)
}

func traceLineage(ctx *cli.Context) error {
	setLogger(ctx)
	m, err := newMarketFromFlags(ctx)
	if err != nil {
		return err
	}
	model, err := solana.PublicKeyFromBase58(ctx.String(modelFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid model address: %v", err)
	}
	trace := m.TraceModelLineage(model)
	bs, _ := json.MarshalIndent(trace, "", "  ")
	fmt.Println(string(bs))
	if !trace.IsValid {
		log.Warn("lineage is invalid", "violations", trace.Violations)
	}
	return nil
}

var royaltySplitCommand = &cli.Command{
	Action:    royaltySplit,
	Name:      "royaltysplit",
	Usage:     "preview the royalty split of a payment",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		configFileFlag,
		modelFlag,
		amountFlag,
	},
}

func royaltySplit(ctx *cli.Context) error {
	setLogger(ctx)
	m, err := newMarketFromFlags(ctx)
	if err != nil {
		return err
	}
	model, err := solana.PublicKeyFromBase58(ctx.String(modelFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid model address: %v", err)
	}
	amount, err := common.GetUint64FromStr(ctx.String(amountFlag.Name))
	if err != nil {
		return err
	}
	trace := m.TraceModelLineage(model)
	if !trace.IsValid {
		return fmt.Errorf("refuse to split on invalid lineage: %v", trace.Violations)
	}
	dist, err := market.DistributeRoyalties(amount, trace, m.Royalty)
	if err != nil {
		return err
	}
	bs, _ := json.MarshalIndent(dist, "", "  ")
	fmt.Println(string(bs))
	return nil
}

var registerCommand = &cli.Command{
	Action:    register,
	Name:      "register",
	Usage:     "build, sign and send a model registration",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		configFileFlag,
		creatorFlag,
		nameFlag,
		metadataFlag,
		cidFlag,
		parentFlag,
		privKeyFlag,
	},
}

func signAndSend(ctx *cli.Context, m *market.Market, tx *solana.Transaction) error {
	priv, err := solana.PrivateKeyFromBase58(ctx.String(privKeyFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid private key: %v", err)
	}
	edKey := ed25519.PrivateKey(priv)
	signedTx, txHash, err := m.SignTransactionWithPrivateKey(tx, &edKey)
	if err != nil {
		return err
	}
	txHash, err = m.SendTransaction(signedTx)
	if err != nil {
		return err
	}
	fmt.Printf("txhash: %v\n", txHash)
	return nil
}

func register(ctx *cli.Context) error {
	setLogger(ctx)
	m, err := newMarketFromFlags(ctx)
	if err != nil {
		return err
	}
	creator, err := solana.PublicKeyFromBase58(ctx.String(creatorFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid creator address: %v", err)
	}
	var parent *solana.PublicKey
	if ctx.IsSet(parentFlag.Name) {
		p, err := solana.PublicKeyFromBase58(ctx.String(parentFlag.Name))
		if err != nil {
			return fmt.Errorf("invalid parent address: %v", err)
		}
		parent = &p
	}
	tx, modelAddr, err := m.BuildRegisterModelTransaction(
		creator,
		ctx.String(nameFlag.Name),
		ctx.String(metadataFlag.Name),
		ctx.String(cidFlag.Name),
		parent)
	if err != nil {
		return err
	}
	fmt.Printf("model address: %v\n", modelAddr.String())
	return signAndSend(ctx, m, tx)
}

var purchaseCommand = &cli.Command{
	Action:    purchase,
	Name:      "purchase",
	Usage:     "build, sign and send a subscription purchase with its royalty settlement",
	ArgsUsage: " ",
	Flags: []cli.Flag{
		configFileFlag,
		userFlag,
		modelFlag,
		amountFlag,
		privKeyFlag,
	},
}

func purchase(ctx *cli.Context) error {
	setLogger(ctx)
	m, err := newMarketFromFlags(ctx)
	if err != nil {
		return err
	}
	user, err := solana.PublicKeyFromBase58(ctx.String(userFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid user address: %v", err)
	}
	model, err := solana.PublicKeyFromBase58(ctx.String(modelFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid model address: %v", err)
	}
	amount, err := common.GetUint64FromStr(ctx.String(amountFlag.Name))
	if err != nil {
		return err
	}
	tx, dist, err := m.BuildPurchaseSubscriptionTransaction(user, model, amount)
	if err != nil {
		return err
	}
	bs, _ := json.MarshalIndent(dist, "", "  ")
	fmt.Println(string(bs))
	return signAndSend(ctx, m, tx)
}
