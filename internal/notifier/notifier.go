package notifier

import (
	"bytes"
	"context"
	"html/template"

	accountdomain "github.com/mekadomus/aquaflow/internal/account/domain"
	alertdomain "github.com/mekadomus/aquaflow/internal/alert/domain"
	"github.com/mekadomus/aquaflow/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Notifier delivers one digest per owner summarizing all of that owner's
// currently alerting meters.
type Notifier interface {
	SendAlertsDigest(ctx context.Context, account *accountdomain.Account, alerts []alertdomain.FluidMeterAlerts) error
}

const digestSubject = "Alerts for your fluid meters"

var digestTemplate = template.Must(template.New("alerts_digest").Parse(`<html><body>
<p>Hello {{.Name}},</p>
<p>We detected the following conditions on your meters:</p>
<ul>
{{- range .Meters}}
<li><strong>{{.Meter.Name}}</strong>:
{{- range .Alerts}}
{{- if eq .Type "ConstantFlow"}} water has been flowing without interruption, which may indicate a leak.{{end}}
{{- if eq .Type "NotReporting"}} the meter has stopped reporting readings.{{end}}
{{- end}}
</li>
{{- end}}
</ul>
<p>Please check on them.</p>
</body></html>`))

type digestData struct {
	Name   string
	Meters []alertdomain.FluidMeterAlerts
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Provider email.Provider
}

type emailNotifier struct {
	log      *zap.Logger
	provider email.Provider
}

func New(p Params) Notifier {
	return &emailNotifier{
		log:      p.Log.Named("notifier"),
		provider: p.Provider,
	}
}

func (n *emailNotifier) SendAlertsDigest(ctx context.Context, account *accountdomain.Account, alerts []alertdomain.FluidMeterAlerts) error {
	var body bytes.Buffer
	err := digestTemplate.Execute(&body, digestData{
		Name:   account.Name,
		Meters: alerts,
	})
	if err != nil {
		return err
	}

	return n.provider.Send(ctx, []string{account.Email}, digestSubject, body.String())
}

var Module = fx.Module("notifier",
	fx.Provide(New),
)
