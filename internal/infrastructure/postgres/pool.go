package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Restaurante-api/pkg/config"
)

const defaultMaxConns = 25

// NewPool abre el pool del libro de inventario y verifica la conexión.
// fanOut es el número de descuentos por insumo que un pedido corre a la vez.
func NewPool(ctx context.Context, cfg config.DBConfig, fanOut int) (*pgxpool.Pool, error) {
	pc, err := poolConfig(cfg, fanOut)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// poolConfig arma la configuración sin conectar. El pool mantiene abiertas las conexiones
// de un pedido completo más una para lecturas; nunca más que MaxConns.
func poolConfig(cfg config.DBConfig, fanOut int) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	pc.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if fanOut < 1 {
		fanOut = 1
	}
	pc.MinConns = min(int32(fanOut)+1, pc.MaxConns)
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute

	if cfg.ForceIPv4 {
		pc.ConnConfig.LookupFunc = lookupIPv4
	}

	// NUMERIC <-> decimal.Decimal; cantidades y precios nunca pasan por float.
	pc.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return pc, nil
}

// lookupIPv4 descarta las direcciones IPv6 del resolver del sistema.
func lookupIPv4(ctx context.Context, host string) ([]string, error) {
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return nil, err
	}
	addrs := make([]string, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, ip.String())
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%s: sin direcciones IPv4", host)
	}
	return addrs, nil
}
