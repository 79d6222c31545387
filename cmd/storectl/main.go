// Command storectl inspects the storefront record stores and carts.
//
//	storectl users
//	storectl orders [--email addr]
//	storectl smoke [--email addr]
//	storectl cart [--file path | --redis addr] [--name key] show|add|remove|qty|clear ...
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tooniwear/storefront-backend/internal/cart"
	"github.com/tooniwear/storefront-backend/internal/checkout"
	"github.com/tooniwear/storefront-backend/internal/config"
	"github.com/tooniwear/storefront-backend/internal/logger"
	"github.com/tooniwear/storefront-backend/internal/notify"
	"github.com/tooniwear/storefront-backend/internal/order"
	"github.com/tooniwear/storefront-backend/internal/ratelimit"
	"github.com/tooniwear/storefront-backend/internal/store"
	"github.com/tooniwear/storefront-backend/internal/user"
)

var errUsage = errors.New("usage: storectl users | orders [--email addr] | smoke [--email addr] | cart [flags] show|add|remove|qty|clear")

func main() {
	cfg, err := config.LoadTool()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.NewWithWriter(os.Stderr, cfg.Common.ServiceName+"-ctl", cfg.Common.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, cfg, log, os.Args[1:], os.Stdout); err != nil {
		log.Error().Err(err).Msg("storectl failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.ToolConfig, log zerolog.Logger, args []string, out io.Writer) error {
	root := newRootCmd(cfg, log)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(io.Discard)
	return root.ExecuteContext(ctx)
}

func newRootCmd(cfg config.ToolConfig, log zerolog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "storectl",
		Short:         "Inspect storefront records and carts",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			return errUsage
		},
	}
	root.AddCommand(
		newUsersCmd(cfg, log),
		newOrdersCmd(cfg, log),
		newSmokeCmd(cfg, log),
		newCartCmd(cfg),
	)
	return root
}

// withBackend opens the configured record backend for the duration of fn.
func withBackend(ctx context.Context, cfg config.ToolConfig, log zerolog.Logger, fn func(*store.Backend) error) error {
	backend, err := store.OpenBackend(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer backend.Close()
	return fn(backend)
}

func newUsersCmd(cfg config.ToolConfig, log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users without password hashes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withBackend(ctx, cfg, log, func(backend *store.Backend) error {
				users, err := store.Open[user.User](ctx, backend, store.KindUsers)
				if err != nil {
					return err
				}
				list, err := user.NewService(user.NewRecordRepository(users), nil).List(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), list)
			})
		},
	}
}

func newOrdersCmd(cfg config.ToolConfig, log zerolog.Logger) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List stored orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withBackend(ctx, cfg, log, func(backend *store.Backend) error {
				orders, err := store.Open[order.Order](ctx, backend, store.KindOrders)
				if err != nil {
					return err
				}
				repo := order.NewRecordRepository(orders)
				if email == "" {
					all, err := repo.List(ctx)
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), all)
				}
				list, err := order.NewService(repo).ListForEmail(ctx, email)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), list)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "only orders shipped to this email")
	return cmd
}

func newSmokeCmd(cfg config.ToolConfig, log zerolog.Logger) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Place one test order through checkout and read it back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return withBackend(ctx, cfg, log, func(backend *store.Backend) error {
				orders, err := store.Open[order.Order](ctx, backend, store.KindOrders)
				if err != nil {
					return err
				}
				return smoke(ctx, cfg, log, orders, email, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "smoke@tooniwear.test", "shipping email for the test order")
	return cmd
}

// smoke places one order through the checkout path and reads it back.
func smoke(ctx context.Context, cfg config.ToolConfig, log zerolog.Logger, orders store.Store[order.Order], email string, out io.Writer) error {
	repo := order.NewRecordRepository(orders)
	svc := checkout.NewService(
		repo,
		ratelimit.NewMemoryLimiter(cfg.Checkout.RateMax, cfg.Checkout.RateWindow),
		notify.NewLogNotifier(log, cfg.Checkout.StoreEmail, cfg.Checkout.StorePhone),
		cfg.Checkout.OrderPrefix,
		log,
	)

	basket := cart.FromItems([]cart.Item{
		{ID: "3", Name: "Classic Striped Tee", Price: 15.99, Quantity: 1, Size: "4Y"},
		{ID: "3", Name: "Classic Striped Tee", Price: 15.99, Quantity: 1, Size: "4Y"},
	})
	id, err := svc.Submit(ctx, "127.0.0.1", checkout.Request{
		ShippingDetails: order.ShippingDetails{FullName: "Smoke Test", Email: email, Address: "1 Test St", City: "Lahore", Phone: "000"},
		Items:           basket.Items,
		TotalPrice:      basket.TotalPrice(),
		PaymentMethod:   "cod",
	})
	if err != nil {
		return err
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("read back %s: %w", id, err)
	}
	return writeJSON(out, got)
}

type cartFlags struct {
	file  string
	redis string
	name  string
}

func newCartCmd(cfg config.ToolConfig) *cobra.Command {
	f := &cartFlags{}
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or edit a persisted cart",
		Args:  cobra.ArbitraryArgs,
		RunE: func(*cobra.Command, []string) error {
			return errUsage
		},
	}
	cmd.PersistentFlags().StringVar(&f.file, "file", "", "cart JSON file")
	cmd.PersistentFlags().StringVar(&f.redis, "redis", cfg.Redis.Addr, "redis address")
	cmd.PersistentFlags().StringVar(&f.name, "name", cart.DefaultName, "cart storage name")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the cart with totals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return editCart(cmd, f, nil)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return editCart(cmd, f, func(c *cart.Cart) { c.Clear() })
			},
		},
		&cobra.Command{
			Use:   "remove <id> <size>",
			Short: "Drop a cart line",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return editCart(cmd, f, func(c *cart.Cart) { c.RemoveItem(args[0], args[1]) })
			},
		},
		&cobra.Command{
			Use:   "qty <id> <size> <quantity>",
			Short: "Set the quantity of a cart line",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				q, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("quantity: %w", err)
				}
				return editCart(cmd, f, func(c *cart.Cart) { c.UpdateQuantity(args[0], args[1], q) })
			},
		},
		&cobra.Command{
			Use:   "add <id> <size> <quantity> <price> [name]",
			Short: "Add an item, merging with a line of the same id and size",
			Args:  cobra.RangeArgs(4, 5),
			RunE: func(cmd *cobra.Command, args []string) error {
				q, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("quantity: %w", err)
				}
				price, err := strconv.ParseFloat(args[3], 64)
				if err != nil {
					return fmt.Errorf("price: %w", err)
				}
				item := cart.Item{ID: args[0], Size: args[1], Quantity: q, Price: price}
				if len(args) == 5 {
					item.Name = args[4]
				}
				return editCart(cmd, f, func(c *cart.Cart) { c.AddItem(item) })
			},
		},
	)
	return cmd
}

// editCart loads the cart, applies fn when set, and prints the result.
func editCart(cmd *cobra.Command, f *cartFlags, fn func(*cart.Cart)) error {
	ctx := cmd.Context()

	var p cart.Persister
	switch {
	case f.file != "":
		p = cart.FilePersister{Path: f.file}
	case f.redis != "":
		client := redis.NewClient(&redis.Options{Addr: f.redis})
		defer client.Close()
		p = cart.NewRedisPersister(client, f.name)
	default:
		return errors.New("cart needs --file or --redis")
	}

	s, err := cart.NewStore(ctx, p)
	if err != nil {
		return err
	}
	if fn != nil {
		if err := s.Set(ctx, fn); err != nil {
			return err
		}
	}

	c := s.Get()
	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"items":      append([]cart.Item{}, c.Items...),
		"totalItems": c.TotalItems(),
		"totalPrice": c.TotalPrice(),
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
