// ottinspect lists (and optionally purges) pending verification secrets
// held in Redis by the auth flows.
//
//	go run ./internal/tools/ottinspect -addr 127.0.0.1:6379 -kind verify_email
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/baechuer/company-registry/internal/application/auth"
	"github.com/baechuer/company-registry/internal/infrastructure/redis"
	"github.com/baechuer/company-registry/internal/logger"
)

func main() {
	var (
		addr    = flag.String("addr", "127.0.0.1:6379", "redis address host:port")
		pass    = flag.String("pass", "", "redis password")
		db      = flag.Int("db", 0, "redis db")
		kind    = flag.String("kind", "", "verify_email | verify_mobile (empty = all)")
		doDel   = flag.Bool("del", false, "delete matched keys")
		count   = flag.Int64("count", 200, "SCAN COUNT hint")
		timeout = flag.Duration("timeout", 5*time.Second, "overall timeout")
	)
	flag.Parse()
	logger.Init()

	switch auth.OneTimeTokenKind(*kind) {
	case "", auth.TokenVerifyEmail, auth.TokenVerifyMobile:
	default:
		logger.Logger.Error().Str("kind", *kind).Msg("unknown token kind")
		os.Exit(2)
	}

	c := redis.New(*addr, *pass, *db)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		logger.Logger.Error().Err(err).Str("addr", *addr).Msg("redis ping failed")
		os.Exit(1)
	}

	store := redis.NewOneTimeTokenStore(c)
	pending, err := store.ListPending(ctx, auth.OneTimeTokenKind(*kind), *count)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("scan failed")
		os.Exit(1)
	}

	if len(pending) == 0 {
		fmt.Println("No pending tokens.")
		return
	}

	keys := make([]string, 0, len(pending))
	for i, p := range pending {
		fmt.Printf("%d) %s\n   user=%s ttl=%s\n", i+1, p.Key, p.UserID, p.TTL)
		keys = append(keys, p.Key)
	}

	if *doDel {
		n, err := store.Purge(ctx, keys...)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("purge failed")
			os.Exit(1)
		}
		fmt.Printf("Deleted %d key(s).\n", n)
	}
}
