package rbac

const (
	// DefaultOmnipotentRole is the reserved name of the role that may do anything.
	DefaultOmnipotentRole = "super_admin"
	// DefaultActor is recorded in audit fields when no operator is named.
	DefaultActor = "system"
)

type options struct {
	omnipotentRole string
	actor          string
	audit          bool
}

// Option configures a Generator or Synchronizer.
type Option func(*options)

// WithOmnipotentRole overrides the reserved omnipotent role name.
func WithOmnipotentRole(name string) Option {
	return func(o *options) {
		if name != "" {
			o.omnipotentRole = name
		}
	}
}

// WithActor names the operator written to created_by/updated_by and the audit trail.
func WithActor(name string) Option {
	return func(o *options) {
		if name != "" {
			o.actor = name
		}
	}
}

// WithAudit enables or disables the audit trail. It is enabled by default.
func WithAudit(enabled bool) Option {
	return func(o *options) {
		o.audit = enabled
	}
}

func newOptions(opts []Option) options {
	o := options{
		omnipotentRole: DefaultOmnipotentRole,
		actor:          DefaultActor,
		audit:          true,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
