package render

import "time"

// Options configures a dialect at construction time.
type Options struct {
	Templates map[string]Template
	Timezone  string
	WeekStart time.Weekday
}

// Option mutates Options.
type Option func(*Options)

// NewOptions applies opts over the defaults: UTC, weeks starting Monday.
func NewOptions(opts ...Option) Options {
	o := Options{Timezone: "UTC", WeekStart: time.Monday}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTimezone sets the timezone used by ConvertTz.
func WithTimezone(tz string) Option {
	return func(o *Options) {
		if tz != "" {
			o.Timezone = tz
		}
	}
}

// WithWeekStart sets the first day of the week for week truncation.
func WithWeekStart(day time.Weekday) Option {
	return func(o *Options) {
		o.WeekStart = day
	}
}

// WithTemplates shadows individual template keys on top of the dialect table.
func WithTemplates(overrides map[string]Template) Option {
	return func(o *Options) {
		if o.Templates == nil {
			o.Templates = make(map[string]Template, len(overrides))
		}
		for k, v := range overrides {
			o.Templates[k] = v
		}
	}
}

// Build layers the caller's template overrides on top of a dialect table.
func (o Options) Build(base *Templates) *Templates {
	if len(o.Templates) == 0 {
		return base
	}
	return base.Extend(o.Templates)
}
