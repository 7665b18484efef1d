// Command simulate runs concurrent shopping sessions against one shared catalog
// and prints each session's checkout summary.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fjod/go_cart/internal/cart"
	"github.com/fjod/go_cart/internal/catalog"
	"github.com/fjod/go_cart/internal/config"
	"github.com/fjod/go_cart/internal/discount"
	"github.com/fjod/go_cart/internal/domain"
	"github.com/fjod/go_cart/internal/logger"
	"github.com/fjod/go_cart/internal/repository"
	"github.com/fjod/go_cart/internal/service"
	"github.com/fjod/go_cart/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tiers = []domain.Tier{domain.TierRegular, domain.TierPremium, domain.TierVIP}

func main() {
	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	if err := run(context.Background(), cfg, log, os.Stdout); err != nil {
		log.Fatal("simulation failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, out io.Writer) error {
	// the seed catalog is all the simulator needs, nothing is written back
	repo, err := repository.NewRepository(":memory:")
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := repo.RunMigrations(); err != nil {
		return err
	}

	ledger := store.NewMemoryStore()
	products, err := repository.LoadCatalog(ctx, repo, ledger)
	if err != nil {
		return err
	}

	printMenu(out, products, ledger)

	engine := service.NewCheckoutEngine(products, ledger, discount.Policy{}, nil, log)
	receipts, err := simulate(ctx, engine, ledger, cfg.SimSessions, cfg.SimProductID, cfg.SimQuantity)
	if err != nil {
		return err
	}

	for i, r := range receipts {
		if r == nil {
			fmt.Fprintf(out, "\nsession %d: cart rejected the line, nothing to check out\n", i+1)
			continue
		}
		printReceipt(out, r)
	}

	available, err := ledger.Available(cfg.SimProductID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nRemaining stock for product %d: %d\n", cfg.SimProductID, available)
	return nil
}

// simulate runs one session per goroutine. Every session adds qty of productID
// to its own cart, then all of them race to check out. A nil receipt means the
// advisory check rejected the line before checkout.
func simulate(
	ctx context.Context,
	engine *service.CheckoutEngine,
	ledger store.StockLedger,
	sessions int,
	productID int64,
	qty int32) ([]*domain.Receipt, error) {

	carts := make([]*cart.Cart, sessions)
	for i := range carts {
		c := cart.New(fmt.Sprintf("shopper-%d", i+1), ledger)
		if err := c.AddLine(productID, qty); err != nil {
			if !isAdvisoryRejection(err) {
				return nil, err
			}
			continue
		}
		carts[i] = c
	}

	receipts := make([]*domain.Receipt, sessions)
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range carts {
		if c == nil {
			continue
		}
		g.Go(func() error {
			r, err := engine.Checkout(gctx, c, tiers[i%len(tiers)])
			if err != nil {
				return fmt.Errorf("session %d: %w", i+1, err)
			}
			receipts[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return receipts, nil
}

func isAdvisoryRejection(err error) bool {
	return errors.Is(err, domain.ErrInsufficientStock)
}

func printMenu(out io.Writer, products *catalog.Catalog, ledger store.StockLedger) {
	fmt.Fprintln(out, "--- Product Menu ---")
	for i, p := range products.List() {
		available, _ := ledger.Available(p.ID)
		fmt.Fprintf(out, "%d. %s - %s ($%s) [%d in stock]\n",
			i+1, p.Name, p.Description, p.Price.StringFixed(2), available)
	}
}

func printReceipt(out io.Writer, r *domain.Receipt) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n--- Checkout Summary (%s, %s) ---\n", r.UserID, r.Tier)
	for _, l := range r.Lines {
		fmt.Fprintf(&b, "%d x %s @ $%s", l.Quantity, l.ProductName, l.UnitPrice.StringFixed(2))
		if !l.Committed {
			b.WriteString("  [not reserved: insufficient stock]")
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Subtotal: $%s\n", r.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Discount: -$%s\n", r.DiscountAmount.StringFixed(2))
	fmt.Fprintf(&b, "Total Due: $%s\n", r.TotalDue.StringFixed(2))
	fmt.Fprint(out, b.String())
}
