// Package sweep runs the periodic anomaly-detection pass over all active
// meters and dispatches one digest per affected owner.
package sweep

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/mekadomus/aquaflow/internal/account/domain"
	alertdomain "github.com/mekadomus/aquaflow/internal/alert/domain"
	"github.com/mekadomus/aquaflow/internal/clock"
	meterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
	"github.com/mekadomus/aquaflow/internal/notifier"
	"github.com/mekadomus/aquaflow/internal/ratelimit"
	"github.com/mekadomus/aquaflow/internal/runmeta"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrCooldown rejects an invocation arriving inside the cooldown window.
var ErrCooldown = errors.New("sweep_cooldown")

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	MeterSvc   meterdomain.Service
	AccountSvc accountdomain.Service
	RunMeta    runmeta.Repository
	Compiler   alertdomain.Compiler
	Notifier   notifier.Notifier
	Limiter    *ratelimit.SweepLimiter `optional:"true"`
	Config     Config                  `optional:"true"`
}

type Runner struct {
	log        *zap.Logger
	cfg        Config
	clock      clock.Clock
	metersvc   meterdomain.Service
	accountsvc accountdomain.Service
	runmeta    runmeta.Repository
	compiler   alertdomain.Compiler
	notifier   notifier.Notifier
	limiter    *ratelimit.SweepLimiter
}

func New(p Params) *Runner {
	return &Runner{
		log:        p.Log.Named("alert.sweep"),
		cfg:        p.Config.withDefaults(),
		clock:      p.Clock,
		metersvc:   p.MeterSvc,
		accountsvc: p.AccountSvc,
		runmeta:    p.RunMeta,
		compiler:   p.Compiler,
		notifier:   p.Notifier,
		limiter:    p.Limiter,
	}
}

// Run executes one sweep. Evaluation failures abort the whole run; delivery
// failures are logged and skipped so one owner's broken mail setup never
// blocks the rest. Notification of an owner happens at most once per run.
func (r *Runner) Run(ctx context.Context) error {
	if r.limiter.Enabled() {
		token, ok, err := r.limiter.TryLock(ctx)
		if err != nil {
			// Advisory only. The metadata cooldown below still applies.
			r.log.Warn("sweep lock unavailable", zap.Error(err))
		} else if !ok {
			r.log.Info("sweep already running elsewhere")
			return ErrCooldown
		} else {
			defer func() {
				if err := r.limiter.Release(context.WithoutCancel(ctx), token); err != nil {
					r.log.Warn("failed to release sweep lock", zap.Error(err))
				}
			}()
		}
	}

	now := r.clock.Now()

	lastRun, err := r.runmeta.Get(ctx, runmeta.LastAlertsRunKey)
	if err != nil {
		return fmt.Errorf("reading last sweep run: %w", err)
	}
	if lastRun != nil {
		at, err := runmeta.ParseTime(lastRun.Value)
		if err != nil {
			// A corrupt value must not wedge alerting forever; treat it as
			// no previous run.
			r.log.Warn("unreadable last sweep timestamp", zap.String("value", lastRun.Value))
		} else if now.Sub(at) < r.cfg.Cooldown {
			r.log.Info("sweep inside cooldown window", zap.Time("last_run", at))
			return ErrCooldown
		}
	}

	// Claim the run before doing any work. Best effort: a second invocation
	// racing inside the window between the read above and this write can
	// still start a redundant sweep.
	if err := r.runmeta.Save(ctx, runmeta.LastAlertsRunKey, runmeta.FormatTime(now)); err != nil {
		return fmt.Errorf("claiming sweep run: %w", err)
	}

	var cursor snowflake.ID
	for {
		meters, err := r.metersvc.ListActive(ctx, cursor, r.cfg.PageSize)
		if err != nil {
			return fmt.Errorf("listing active meters: %w", err)
		}
		if len(meters) == 0 {
			break
		}
		cursor = meters[len(meters)-1].ID

		// Group this page's alerting meters by owner so every owner gets a
		// single digest. Grouping per page bounds memory to one page.
		byOwner := map[snowflake.ID][]alertdomain.FluidMeterAlerts{}
		for i := range meters {
			compiled, err := r.compiler.GetAlerts(ctx, &meters[i])
			if err != nil {
				// One unreadable measurement history is a systemic fault,
				// not an isolated one.
				return fmt.Errorf("evaluating meter %s: %w", meters[i].ID, err)
			}
			if len(compiled.Alerts) == 0 {
				continue
			}
			byOwner[meters[i].OwnerID] = append(byOwner[meters[i].OwnerID], *compiled)
		}

		if err := r.notifyOwners(ctx, byOwner); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) notifyOwners(ctx context.Context, byOwner map[snowflake.ID][]alertdomain.FluidMeterAlerts) error {
	for ownerID, alerts := range byOwner {
		account, err := r.accountsvc.GetByID(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("looking up owner %s: %w", ownerID, err)
		}
		if account == nil {
			// A meter always references an existing owner; a miss here means
			// the catalog is corrupt.
			return fmt.Errorf("meter assigned to account %s, but account not found", ownerID)
		}

		if err := r.notifier.SendAlertsDigest(ctx, account, alerts); err != nil {
			r.log.Error("failed to send alerts digest",
				zap.String("owner_id", ownerID.String()),
				zap.Int("meters", len(alerts)),
				zap.Error(err))
		}
	}
	return nil
}
