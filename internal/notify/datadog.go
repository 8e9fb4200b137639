package notify

import (
	"context"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV1"
)

// DataDogSender mirrors operator notifications as DataDog events.
type DataDogSender struct {
	api  *datadogV1.EventsApi
	cfg  DataDog
	tags []string
}

// NewDataDog builds an events client.
func NewDataDog(cfg DataDog) *DataDogSender {
	configuration := datadog.NewConfiguration()
	if len(cfg.Servers) > 0 {
		configuration.Servers = cfg.Servers
	}

	tags := append([]string{}, cfg.Tags...)
	if cfg.ServiceName != "" {
		tags = append(tags, "service:"+cfg.ServiceName)
	}

	return &DataDogSender{
		api:  datadogV1.NewEventsApi(datadog.NewAPIClient(configuration)),
		cfg:  cfg,
		tags: tags,
	}
}

// Name implements Sender.
func (d *DataDogSender) Name() string { return "datadog" }

// Send implements Sender. Staff notifications are not mirrored.
func (d *DataDogSender) Send(ctx context.Context, m Message) error {
	if !m.Operator {
		return nil
	}

	ctx = context.WithValue(ctx, datadog.ContextAPIKeys, map[string]datadog.APIKey{
		"apiKeyAuth": {Key: d.cfg.APIKey},
	})

	if d.cfg.Site != "" {
		ctx = context.WithValue(ctx, datadog.ContextServerVariables, map[string]string{"site": d.cfg.Site})
	}

	body := datadogV1.NewEventCreateRequest(m.Body, m.Subject)
	body.SetTags(d.tags)
	body.SetAlertType(datadogV1.EVENTALERTTYPE_WARNING)

	_, resp, err := d.api.CreateEvent(ctx, *body)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	return err
}
