// shipctl is the operator CLI for the ship coordination core: create, board
// and launch ships, and inspect the local transaction ledger.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/allowance"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/chain"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/chain/contracts"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/config"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/fees"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ledger"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/monitor"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/routes"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ship"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: shipctl -config <file> <command> [flags]

Commands:
  create   create a ship (capacity 1 launches solo)
  board    board an existing ship
  launch   launch a full ship
  status   show ship state and launch eligibility
  history  list ledger entries for the account
  stats    show derived ledger statistics
  clear    clear the account's ledger
  routes   list supported destination chains
`)
	os.Exit(2)
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	command := flag.Arg(0)

	if command == "routes" {
		for _, name := range routes.Supported() {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("load config: %v", err)
	}

	// CLI output goes to stdout; keep structured logs quiet unless asked for.
	logCfg := cfg.Logging
	if logCfg.Level == "" || logCfg.Level == "info" {
		logCfg.Level = "warn"
	}
	logger, err := config.NewLogger(logCfg)
	if err != nil {
		fatal("init logger: %v", err)
	}
	defer logger.Sync()

	app, err := newApp(cfg, logger)
	if err != nil {
		fatal("%v", err)
	}
	defer app.close()

	ctx := context.Background()
	args := flag.Args()[1:]

	switch command {
	case "create":
		err = app.create(ctx, args)
	case "board":
		err = app.board(ctx, args)
	case "launch":
		err = app.launch(ctx, args)
	case "status":
		err = app.status(ctx, args)
	case "history":
		err = app.history()
	case "stats":
		err = app.stats()
	case "clear":
		err = app.clear()
	default:
		usage()
	}
	if err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "shipctl: "+format+"\n", args...)
	os.Exit(1)
}

type app struct {
	cfg        *config.Config
	chain      *chain.Client
	kv         *ledger.RedisKV
	ledger     *ledger.Ledger
	monitor    *monitor.Monitor
	controller *ship.Controller
}

func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	chainClient, err := chain.NewClient(&cfg.Ethereum, logger)
	if err != nil {
		return nil, fmt.Errorf("connect chain: %w", err)
	}

	factory, err := contracts.NewShipFactory(common.HexToAddress(cfg.Ethereum.FactoryContract), chainClient.Backend())
	if err != nil {
		return nil, fmt.Errorf("bind factory: %w", err)
	}

	kv, err := ledger.NewRedisKV(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	led, err := ledger.Open(kv, cfg.Redis.KeyPrefix, chainClient.Address().Hex(), logger)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	mon := monitor.New(chainClient, led, cfg.Ethereum.ReceiptTimeout, logger)

	calculator, err := fees.NewCalculator(fees.NewFactorySchedule(factory), &cfg.Ships, logger)
	if err != nil {
		return nil, err
	}

	negotiator := allowance.NewNegotiator(
		allowance.NewBackendTokenSource(chainClient.Backend()),
		chainClient, mon, led, logger)

	controller, err := ship.NewController(factory, calculator, negotiator, chainClient, mon, led, &cfg.Ships, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		chain:      chainClient,
		kv:         kv,
		ledger:     led,
		monitor:    mon,
		controller: controller,
	}, nil
}

func (a *app) close() {
	a.monitor.Stop()
	a.kv.Close()
	a.chain.Close()
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	tokens := fs.String("tokens", "", "Comma-separated token addresses")
	amounts := fs.String("amounts", "", "Comma-separated token amounts (18-decimal units)")
	dest := fs.String("dest", "", "Destination chain (see 'shipctl routes')")
	capacity := fs.Uint("capacity", 1, "Passenger capacity (1 launches solo)")
	wait := fs.Bool("wait", true, "Wait for finalization")
	fs.Parse(args)

	tokenAddrs, tokenAmounts, err := parseTokenArgs(*tokens, *amounts)
	if err != nil {
		return err
	}

	submission, err := a.controller.CreateShip(ctx, &ship.CreateRequest{
		Tokens:           tokenAddrs,
		Amounts:          tokenAmounts,
		DestinationChain: *dest,
		Capacity:         uint8(*capacity),
	})
	if err != nil {
		return err
	}

	if *capacity == 1 {
		fmt.Printf("Solo launch submitted: %s\n", submission.TxHash.Hex())
	} else {
		fmt.Printf("Ship created, awaiting passengers: %s\n", submission.TxHash.Hex())
	}
	if *wait {
		return a.waitForEntry(submission.TxHash.Hex())
	}
	return nil
}

func (a *app) board(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("board", flag.ExitOnError)
	shipAddr := fs.String("ship", "", "Ship address")
	tokens := fs.String("tokens", "", "Comma-separated token addresses")
	amounts := fs.String("amounts", "", "Comma-separated token amounts (18-decimal units)")
	wait := fs.Bool("wait", true, "Wait for finalization")
	fs.Parse(args)

	if !common.IsHexAddress(*shipAddr) {
		return fmt.Errorf("invalid ship address %q", *shipAddr)
	}

	tokenAddrs, tokenAmounts, err := parseTokenArgs(*tokens, *amounts)
	if err != nil {
		return err
	}

	submission, err := a.controller.BoardShip(ctx, &ship.BoardRequest{
		Ship:    common.HexToAddress(*shipAddr),
		Tokens:  tokenAddrs,
		Amounts: tokenAmounts,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Boarding submitted: %s\n", submission.TxHash.Hex())
	if *wait {
		return a.waitForEntry(submission.TxHash.Hex())
	}
	return nil
}

func (a *app) launch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("launch", flag.ExitOnError)
	shipAddr := fs.String("ship", "", "Ship address")
	wait := fs.Bool("wait", true, "Wait for finalization")
	fs.Parse(args)

	if !common.IsHexAddress(*shipAddr) {
		return fmt.Errorf("invalid ship address %q", *shipAddr)
	}

	submission, err := a.controller.LaunchShip(ctx, common.HexToAddress(*shipAddr))
	if err != nil {
		return err
	}

	fmt.Printf("Launch submitted: %s\n", submission.TxHash.Hex())
	if *wait {
		return a.waitForEntry(submission.TxHash.Hex())
	}
	return nil
}

func (a *app) status(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	shipAddr := fs.String("ship", "", "Ship address")
	fs.Parse(args)

	if !common.IsHexAddress(*shipAddr) {
		return fmt.Errorf("invalid ship address %q", *shipAddr)
	}

	status, err := a.controller.ShipStatus(ctx, common.HexToAddress(*shipAddr))
	if err != nil {
		return err
	}

	fmt.Printf("Ship %s\n", status.Address.Hex())
	fmt.Printf("  passengers:     %d/%d\n", status.CurrentPassengers, status.Capacity)
	fmt.Printf("  collected fees: %s wei\n", status.CollectedFees)
	fmt.Printf("  ccip fee:       %s wei\n", status.CCIPFee)
	fmt.Printf("  launched:       %v\n", status.IsLaunched)
	fmt.Printf("  launch ready:   %v\n", status.LaunchEligible())
	return nil
}

func (a *app) history() error {
	entries := a.ledger.Entries()
	if len(entries) == 0 {
		fmt.Println("No transactions recorded.")
		return nil
	}
	for _, entry := range entries {
		fmt.Printf("%s  %-14s %-9s %s\n",
			entry.Timestamp.Format(time.RFC3339), entry.Type, entry.Status, entry.Hash)
		if entry.Outcome != nil && entry.Outcome.Error != "" {
			fmt.Printf("    error: %s\n", entry.Outcome.Error)
		}
	}
	return nil
}

func (a *app) stats() error {
	out, err := json.MarshalIndent(a.ledger.Stats(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func (a *app) clear() error {
	if err := a.ledger.Clear(); err != nil {
		return err
	}
	fmt.Printf("Ledger cleared for %s\n", a.ledger.Account())
	return nil
}

// waitForEntry polls the ledger until the monitor resolves the entry
func (a *app) waitForEntry(hash string) error {
	deadline := time.Now().Add(a.cfg.Ethereum.ReceiptTimeout + 30*time.Second)
	for time.Now().Before(deadline) {
		for _, entry := range a.ledger.Entries() {
			if entry.Hash != hash || !entry.Status.Terminal() {
				continue
			}
			if entry.Status == ledger.StatusConfirmed {
				fmt.Printf("Confirmed in block %d (gas used %d)\n",
					entry.Outcome.BlockNumber, entry.Outcome.GasUsed)
				return nil
			}
			return fmt.Errorf("transaction failed: %s", entry.Outcome.Error)
		}
		time.Sleep(time.Second)
	}
	return fmt.Errorf("timed out waiting for %s", hash)
}

func parseTokenArgs(tokens, amounts string) ([]common.Address, []*big.Int, error) {
	if tokens == "" || amounts == "" {
		return nil, nil, fmt.Errorf("-tokens and -amounts are required")
	}

	tokenParts := strings.Split(tokens, ",")
	amountParts := strings.Split(amounts, ",")
	if len(tokenParts) != len(amountParts) {
		return nil, nil, fmt.Errorf("got %d tokens but %d amounts", len(tokenParts), len(amountParts))
	}

	addrs := make([]common.Address, len(tokenParts))
	units := make([]*big.Int, len(amountParts))
	for i, raw := range tokenParts {
		raw = strings.TrimSpace(raw)
		if !common.IsHexAddress(raw) {
			return nil, nil, fmt.Errorf("invalid token address %q", raw)
		}
		addrs[i] = common.HexToAddress(raw)

		amount, err := decimal.NewFromString(strings.TrimSpace(amountParts[i]))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid amount %q: %w", amountParts[i], err)
		}
		units[i] = fees.ToWei(amount)
	}
	return addrs, units, nil
}
