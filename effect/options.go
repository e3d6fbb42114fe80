package effect

import "github.com/gogpu/fx/backend"

// Option configures Decode.
//
// Example:
//
//	// Graph only, no native objects
//	b, err := effect.Decode(data)
//
//	// Native handles on a device
//	b, err := effect.Decode(data, effect.WithDevice(dev), effect.WithLabel("sprite"))
type Option func(*options)

type options struct {
	device backend.Device
	label  string
}

func defaultOptions() options {
	return options{label: "effect"}
}

// WithDevice creates native handles for the bundle on dev.
func WithDevice(dev backend.Device) Option {
	return func(o *options) {
		o.device = dev
	}
}

// WithLabel sets the prefix of native object labels and log entries.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}
