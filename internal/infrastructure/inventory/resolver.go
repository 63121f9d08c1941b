// Package inventory queries the external endpoint-inventory database for the
// machine most recently associated with a user identity. The inventory is a
// legacy MySQL system written to by periodic agent sweeps; this package only
// ever reads from it.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/softdepot/backend/internal/config"
	"github.com/softdepot/backend/internal/core/ports"
	"github.com/softdepot/backend/internal/domain"
	"github.com/softdepot/backend/internal/infrastructure/logger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MACHINE.USER_LOGGED is a multi-valued column (comma-joined login names
// from the last sweep), hence the substring match. Most recent wins by
// LAST_INVENTORY.
const latestHostnameQuery = `
	SELECT NAME FROM MACHINE
	WHERE USER_LOGGED LIKE ?
	ORDER BY LAST_INVENTORY DESC
	LIMIT 1`

type Resolver struct {
	db           *gorm.DB
	log          *logger.Logger
	queryTimeout time.Duration
}

// NewResolver connects to the inventory database. Connection failure is not
// fatal: the resolver is still returned and answers absent for everything,
// which keeps the portal up while blocking installs (fail closed).
func NewResolver(cfg config.InventoryConfig, log *logger.Logger) *Resolver {
	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	database, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Warnw("inventory_connect_failed", "host", cfg.Host, "error", err)
		database = nil
	}

	return &Resolver{db: database, log: log, queryTimeout: timeout}
}

var _ ports.HostnameResolver = (*Resolver)(nil)

// Resolve maps identity to its most recently seen machine name. Every
// failure mode (no connection, timeout, bad credentials, no match) is the
// same absent answer; errors never cross this boundary.
func (r *Resolver) Resolve(ctx context.Context, identity string) domain.ResolvedHostname {
	username := NormalizeIdentity(identity)
	if username == "" || r.db == nil {
		return domain.ResolvedHostname{}
	}

	queryCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var hostname string
	err := r.db.WithContext(queryCtx).
		Raw(latestHostnameQuery, "%"+username+"%").
		Scan(&hostname).Error
	if err != nil {
		r.log.Warnw("inventory_query_failed", "username", username, "error", err)
		return domain.ResolvedHostname{}
	}
	if hostname == "" {
		return domain.ResolvedHostname{}
	}

	return domain.ResolvedHostname{Hostname: hostname, Found: true}
}

// NormalizeIdentity strips a mail-style domain suffix: the inventory records
// bare login names, while the identity provider hands out user@domain.
func NormalizeIdentity(identity string) string {
	identity = strings.TrimSpace(identity)
	if at := strings.Index(identity, "@"); at >= 0 {
		identity = identity[:at]
	}
	return identity
}
