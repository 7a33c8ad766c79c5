package blocks

import (
	"fmt"
	"time"

	"github.com/aretw0/flowforge/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// EchoConfig configures an echo block.
type EchoConfig struct {
	Prefix string `mapstructure:"prefix"`
	Upper  bool   `mapstructure:"upper"`
}

// ContextConfig configures a context block.
type ContextConfig struct {
	Key string `mapstructure:"key"`
}

// ServiceBusConfig configures a servicebus block.
type ServiceBusConfig struct {
	Service      string        `mapstructure:"service"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// DefaultPollInterval is used when a servicebus block sets none.
const DefaultPollInterval = 100 * time.Millisecond

// decodeParams decodes a params map into out. Durations may be given as strings ("250ms"),
// numbers may arrive as strings or json.Number. Unknown keys are rejected.
func decodeParams(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}
