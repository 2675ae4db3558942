package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/allowance"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/api"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/chain"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/chain/contracts"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/config"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/fees"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ledger"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/monitor"
	"github.com/Ronit-Raj9/chainlink-chromion-hackathon-sub000/pkg/ship"
)

var configPath = flag.String("config", "config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting ship coordination service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(&cfg.Ethereum, logger)
	if err != nil {
		logger.Fatal("Failed to initialize chain client", zap.Error(err))
	}
	defer chainClient.Close()

	factory, err := contracts.NewShipFactory(common.HexToAddress(cfg.Ethereum.FactoryContract), chainClient.Backend())
	if err != nil {
		logger.Fatal("Failed to bind ship factory", zap.Error(err))
	}

	kv, err := ledger.NewRedisKV(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer kv.Close()

	led, err := ledger.Open(kv, cfg.Redis.KeyPrefix, chainClient.Address().Hex(), logger)
	if err != nil {
		logger.Fatal("Failed to open ledger", zap.Error(err))
	}
	logger.Info("Ledger opened",
		zap.String("account", led.Account()),
		zap.Int("entries", len(led.Entries())))

	mon := monitor.New(chainClient, led, cfg.Ethereum.ReceiptTimeout, logger)
	defer mon.Stop()

	calculator, err := fees.NewCalculator(fees.NewFactorySchedule(factory), &cfg.Ships, logger)
	if err != nil {
		logger.Fatal("Failed to build fee calculator", zap.Error(err))
	}

	negotiator := allowance.NewNegotiator(
		allowance.NewBackendTokenSource(chainClient.Backend()),
		chainClient, mon, led, logger)

	controller, err := ship.NewController(factory, calculator, negotiator, chainClient, mon, led, &cfg.Ships, logger)
	if err != nil {
		logger.Fatal("Failed to build ship controller", zap.Error(err))
	}

	router := api.NewRouter(controller, led, logger, cfg.Monitoring.Enabled)

	if err := api.ServeAndWait(ctx, router, logger, &cfg.Server); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
	}

	logger.Info("Ship coordination service stopped")
}
