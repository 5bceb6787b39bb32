package domain

// Preferences are the per-user notification settings.
type Preferences struct {
	City           string `json:"city" validate:"required,max=100"`
	Provider       string `json:"provider" validate:"required,max=32"`
	NotifyTime     string `json:"notify_time" validate:"clock"`
	MagneticRegion string `json:"magnetic_region" validate:"region"`
}

// IsZero reports whether no field has been set, i.e. the user is unknown.
func (p Preferences) IsZero() bool {
	return p == Preferences{}
}

// WithDefaults returns p with every empty field taken from d.
func (p Preferences) WithDefaults(d Preferences) Preferences {
	if p.City == "" {
		p.City = d.City
	}
	if p.Provider == "" {
		p.Provider = d.Provider
	}
	if p.NotifyTime == "" {
		p.NotifyTime = d.NotifyTime
	}
	if p.MagneticRegion == "" {
		p.MagneticRegion = d.MagneticRegion
	}
	return p
}

// Job is the parameter set of one user's daily notification,
// captured when the job is registered.
type Job struct {
	UserID int64
	Prefs  Preferences
}
