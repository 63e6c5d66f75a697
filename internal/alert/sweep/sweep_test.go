package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/mekadomus/aquaflow/internal/account/domain"
	alertdomain "github.com/mekadomus/aquaflow/internal/alert/domain"
	"github.com/mekadomus/aquaflow/internal/clock"
	meterdomain "github.com/mekadomus/aquaflow/internal/fluidmeter/domain"
	"github.com/mekadomus/aquaflow/internal/runmeta"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// Fakes for the sweep's collaborators.

type fakeMeterSvc struct {
	meterdomain.Service
	meters []meterdomain.FluidMeter
	err    error
}

func (f *fakeMeterSvc) ListActive(ctx context.Context, cursor snowflake.ID, limit int) ([]meterdomain.FluidMeter, error) {
	if f.err != nil {
		return nil, f.err
	}
	var page []meterdomain.FluidMeter
	for _, m := range f.meters {
		if m.ID > cursor {
			page = append(page, m)
		}
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

type fakeAccountSvc struct {
	accountdomain.Service
	accounts map[snowflake.ID]*accountdomain.Account
}

func (f *fakeAccountSvc) GetByID(ctx context.Context, id snowflake.ID) (*accountdomain.Account, error) {
	return f.accounts[id], nil
}

type fakeRunMeta struct {
	values map[string]string
}

func (f *fakeRunMeta) Get(ctx context.Context, key string) (*runmeta.Metadata, error) {
	v, ok := f.values[key]
	if !ok {
		return nil, nil
	}
	return &runmeta.Metadata{Key: key, Value: v}, nil
}

func (f *fakeRunMeta) Save(ctx context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

type fakeCompiler struct {
	alertsFor map[snowflake.ID][]alertdomain.Alert
	errFor    map[snowflake.ID]error
	evaluated []snowflake.ID
}

func (f *fakeCompiler) GetAlerts(ctx context.Context, meter *meterdomain.FluidMeter) (*alertdomain.FluidMeterAlerts, error) {
	f.evaluated = append(f.evaluated, meter.ID)
	if err := f.errFor[meter.ID]; err != nil {
		return nil, err
	}
	return &alertdomain.FluidMeterAlerts{
		Meter:  *meter,
		Alerts: f.alertsFor[meter.ID],
	}, nil
}

type fakeNotifier struct {
	sent   map[snowflake.ID][]alertdomain.FluidMeterAlerts
	errFor map[snowflake.ID]error
}

func (f *fakeNotifier) SendAlertsDigest(ctx context.Context, account *accountdomain.Account, alerts []alertdomain.FluidMeterAlerts) error {
	if err := f.errFor[account.ID]; err != nil {
		return err
	}
	if f.sent == nil {
		f.sent = map[snowflake.ID][]alertdomain.FluidMeterAlerts{}
	}
	f.sent[account.ID] = append(f.sent[account.ID], alerts...)
	return nil
}

type harness struct {
	runner   *Runner
	clock    *clock.FakeClock
	meters   *fakeMeterSvc
	accounts *fakeAccountSvc
	runMeta  *fakeRunMeta
	compiler *fakeCompiler
	notifier *fakeNotifier
	genID    *snowflake.Node
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	node, _ := snowflake.NewNode(1)
	h := &harness{
		clock:    clock.NewFakeClock(time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)),
		meters:   &fakeMeterSvc{},
		accounts: &fakeAccountSvc{accounts: map[snowflake.ID]*accountdomain.Account{}},
		runMeta:  &fakeRunMeta{values: map[string]string{}},
		compiler: &fakeCompiler{alertsFor: map[snowflake.ID][]alertdomain.Alert{}, errFor: map[snowflake.ID]error{}},
		notifier: &fakeNotifier{errFor: map[snowflake.ID]error{}},
		genID:    node,
	}

	h.runner = New(Params{
		Log:        zap.NewNop(),
		Clock:      h.clock,
		MeterSvc:   h.meters,
		AccountSvc: h.accounts,
		RunMeta:    h.runMeta,
		Compiler:   h.compiler,
		Notifier:   h.notifier,
		Config:     Config{Cooldown: 20 * time.Minute, PageSize: 2},
	})
	return h
}

func (h *harness) addOwner(name string) *accountdomain.Account {
	account := &accountdomain.Account{ID: h.genID.Generate(), Name: name, Email: name + "@example.com"}
	h.accounts.accounts[account.ID] = account
	return account
}

func (h *harness) addMeter(owner *accountdomain.Account, alerts ...alertdomain.Alert) meterdomain.FluidMeter {
	meter := meterdomain.FluidMeter{
		ID:      h.genID.Generate(),
		OwnerID: owner.ID,
		Name:    "meter",
		Status:  meterdomain.StatusActive,
	}
	h.meters.meters = append(h.meters.meters, meter)
	if len(alerts) > 0 {
		h.compiler.alertsFor[meter.ID] = alerts
	}
	return meter
}

func TestRun_Cooldown(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.NoError(t, h.runner.Run(ctx))

	h.clock.Advance(10 * time.Minute)
	assert.ErrorIs(t, h.runner.Run(ctx), ErrCooldown)

	h.clock.Advance(10 * time.Minute)
	assert.NoError(t, h.runner.Run(ctx))
}

func TestRun_CorruptCooldownTimestampDoesNotWedge(t *testing.T) {
	h := newHarness(t)
	h.runMeta.values[runmeta.LastAlertsRunKey] = "garbage"

	assert.NoError(t, h.runner.Run(context.Background()))
	assert.Equal(t, runmeta.FormatTime(h.clock.Now()), h.runMeta.values[runmeta.LastAlertsRunKey])
}

func TestRun_EvaluatesAllPages(t *testing.T) {
	h := newHarness(t)
	owner := h.addOwner("amy")
	for i := 0; i < 5; i++ {
		h.addMeter(owner)
	}

	assert.NoError(t, h.runner.Run(context.Background()))
	assert.Len(t, h.compiler.evaluated, 5)
}

func TestRun_GroupsAlertsByOwner(t *testing.T) {
	h := newHarness(t)
	amy := h.addOwner("amy")
	bob := h.addOwner("bob")

	h.addMeter(amy, alertdomain.Alert{Type: alertdomain.AlertTypeConstantFlow})
	h.addMeter(amy, alertdomain.Alert{Type: alertdomain.AlertTypeNotReporting})
	h.addMeter(bob, alertdomain.Alert{Type: alertdomain.AlertTypeConstantFlow})
	h.addMeter(bob)

	assert.NoError(t, h.runner.Run(context.Background()))

	assert.Len(t, h.notifier.sent[amy.ID], 2)
	assert.Len(t, h.notifier.sent[bob.ID], 1)
}

func TestRun_QuietMetersSendNothing(t *testing.T) {
	h := newHarness(t)
	owner := h.addOwner("amy")
	h.addMeter(owner)
	h.addMeter(owner)

	assert.NoError(t, h.runner.Run(context.Background()))
	assert.Empty(t, h.notifier.sent)
}

func TestRun_EvaluationFailureAbortsRun(t *testing.T) {
	h := newHarness(t)
	owner := h.addOwner("amy")
	broken := h.addMeter(owner)
	h.addMeter(owner, alertdomain.Alert{Type: alertdomain.AlertTypeConstantFlow})
	h.compiler.errFor[broken.ID] = errors.New("storage down")

	err := h.runner.Run(context.Background())
	assert.Error(t, err)
	assert.Empty(t, h.notifier.sent)
}

func TestRun_MissingAccountAbortsRun(t *testing.T) {
	h := newHarness(t)
	ghost := &accountdomain.Account{ID: h.genID.Generate()}
	h.addMeter(ghost, alertdomain.Alert{Type: alertdomain.AlertTypeNotReporting})

	assert.Error(t, h.runner.Run(context.Background()))
}

func TestRun_NotificationFailureDoesNotAbort(t *testing.T) {
	h := newHarness(t)
	amy := h.addOwner("amy")
	bob := h.addOwner("bob")
	h.addMeter(amy, alertdomain.Alert{Type: alertdomain.AlertTypeConstantFlow})
	h.addMeter(bob, alertdomain.Alert{Type: alertdomain.AlertTypeConstantFlow})
	h.notifier.errFor[amy.ID] = errors.New("smtp down")

	assert.NoError(t, h.runner.Run(context.Background()))
	assert.Len(t, h.notifier.sent[bob.ID], 1)
}
