package cli

import (
	"context"
	"fmt"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"solana-launchpad/internal/config"
	"solana-launchpad/internal/market"
	"solana-launchpad/internal/observability"
	"solana-launchpad/internal/payment"
	"solana-launchpad/internal/settlement"
	"solana-launchpad/internal/solana"
	"solana-launchpad/internal/storage"
	chstore "solana-launchpad/internal/storage/clickhouse"
	"solana-launchpad/internal/storage/memory"
	pgstore "solana-launchpad/internal/storage/postgres"
)

// app holds the wired components shared by commands.
type app struct {
	cfg           *config.Config
	logger        *zap.Logger
	market        *market.Service
	ledgers       map[string]*settlement.Ledger
	distributions map[string]storage.DistributionStore
	closers       []func()
}

// appOptions selects which parts of the stack a command needs.
type appOptions struct {
	readOnly bool // no treasury key needed; payments are never attempted
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts appOptions) (*app, error) {
	a := &app{
		cfg:           cfg,
		logger:        logger,
		ledgers:       make(map[string]*settlement.Ledger),
		distributions: make(map[string]storage.DistributionStore),
	}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	stores, points, err := a.openStores(ctx)
	if err != nil {
		return nil, err
	}

	params, err := cfg.Market()
	if err != nil {
		return nil, err
	}
	a.market = market.NewService(market.Config{
		GraduationThresholdSol: params.GraduationThresholdSol,
		TotalSupply:            params.TotalSupply,
	}, points, logger)

	payer, err := a.openPayer(ctx, opts)
	if err != nil {
		return nil, err
	}

	for _, name := range cfg.SurfaceNames() {
		surface, err := cfg.Settlement(name)
		if err != nil {
			return nil, err
		}
		ledger, err := settlement.New(surface, stores[name], payer, settlement.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		a.ledgers[name] = ledger
		a.distributions[name] = stores[name].Distributions
	}

	ok = true
	return a, nil
}

// openStores creates ledger stores per surface and the curve history store.
func (a *app) openStores(ctx context.Context) (map[string]settlement.Stores, storage.CurvePointStore, error) {
	stores := make(map[string]settlement.Stores)

	if a.cfg.Storage.UseMemory {
		a.logger.Warn("using in-memory storage; ledger state is lost on exit")
		locks := memory.NewLockStore()
		for _, name := range a.cfg.SurfaceNames() {
			stores[name] = settlement.Stores{
				FeeClaims:     memory.NewFeeClaimStore(),
				Distributions: memory.NewDistributionStore(),
				Tokens:        memory.NewTokenScopeStore(),
				Locks:         locks,
			}
		}
		return stores, memory.NewCurvePointStore(), nil
	}

	pool, err := pgstore.NewPool(ctx, a.cfg.Storage.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.closers = append(a.closers, pool.Close)

	locks := pgstore.NewLockStore(pool)
	for _, name := range a.cfg.SurfaceNames() {
		sc := a.cfg.Surfaces[name]
		stores[name] = settlement.Stores{
			FeeClaims:     pgstore.NewFeeClaimStore(pool, sc.FeeClaimsTable),
			Distributions: pgstore.NewDistributionStore(pool, sc.DistributionsTable),
			Tokens:        pgstore.NewTokenScopeStore(pool, sc.TokensTable),
			Locks:         locks,
		}
	}

	if a.cfg.Storage.ClickhouseDSN == "" {
		a.logger.Info("clickhouse_dsn not set; curve history disabled")
		return stores, nil, nil
	}
	conn, err := chstore.NewConn(ctx, a.cfg.Storage.ClickhouseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect clickhouse: %w", err)
	}
	a.closers = append(a.closers, func() { conn.Close() })
	return stores, chstore.NewCurvePointStore(conn), nil
}

// openPayer creates the treasury executor.
func (a *app) openPayer(ctx context.Context, opts appOptions) (settlement.PaymentExecutor, error) {
	sc := a.cfg.Solana
	rpc := solana.NewHTTPClient(sc.RPCEndpoint,
		solana.WithMaxRetries(sc.MaxRetries),
		solana.WithCommitment(sc.Commitment),
		solana.WithObserver(func(method string, d time.Duration, err error) {
			observability.RecordRPCLatency(method, d.Seconds(), err)
		}),
	)

	var signer solanago.PrivateKey
	switch {
	case sc.TreasuryKey != "":
		key, err := payment.LoadSigner(sc.TreasuryKey)
		if err != nil {
			return nil, err
		}
		signer = key
	case opts.readOnly:
		// Read-only commands never transfer; any key satisfies the executor.
		key, err := solanago.NewRandomPrivateKey()
		if err != nil {
			return nil, err
		}
		signer = key
	default:
		return nil, fmt.Errorf("solana.treasury_key is required (set %s_SOLANA_TREASURY_KEY)", config.EnvPrefix)
	}

	execOpts := []payment.ExecutorOption{
		payment.WithConfirmTimeout(sc.ConfirmTimeout),
		payment.WithLogger(a.logger),
		payment.WithConfirmer(payment.NewPollingConfirmer(rpc, sc.Commitment, 0)),
	}
	if sc.WSEndpoint != "" && !opts.readOnly {
		wsCfg := solana.DefaultWSConfig()
		wsCfg.Commitment = sc.Commitment
		ws, err := solana.NewWSClient(ctx, sc.WSEndpoint, &wsCfg, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect solana websocket: %w", err)
		}
		a.closers = append(a.closers, func() { ws.Close() })
		execOpts = append(execOpts, payment.WithConfirmer(payment.NewWSConfirmer(ws)))
	}

	payer := payment.NewSolanaExecutor(rpc, signer, execOpts...)
	if !opts.readOnly {
		a.logger.Info("treasury loaded", zap.String("address", payer.FundingAddress()))
	}
	return payer, nil
}

// ledger returns the ledger for a surface name.
func (a *app) ledger(name string) (*settlement.Ledger, error) {
	l, ok := a.ledgers[name]
	if !ok {
		return nil, fmt.Errorf("unknown surface %q (configured: %v)", name, a.cfg.SurfaceNames())
	}
	return l, nil
}

// Close releases connections in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	a.logger.Sync()
}
