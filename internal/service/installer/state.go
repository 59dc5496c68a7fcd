package installer

// InstallState collects answers across wizard steps.
type InstallState struct {
	// Providers in priority order.
	Providers []string
	EnvVars   map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}
