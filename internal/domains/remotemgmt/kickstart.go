package remotemgmt

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

const kickstartPath = "/System/Library/CoreServices/RemoteManagement/ARDAgent.app/Contents/Resources/kickstart"

// KickstartService drives the ARD agent through Apple's kickstart tool.
// Activity is probed by looking for the ARDAgent process rather than asking
// kickstart, which has no query mode.
type KickstartService struct {
	// Path overrides the kickstart binary location. Empty means the
	// standard install path.
	Path string
}

func (s *KickstartService) binary() string {
	if s.Path != "" {
		return s.Path
	}
	return kickstartPath
}

func (s *KickstartService) Active(ctx context.Context) (bool, error) {
	cmd := exec.CommandContext(ctx, "/usr/bin/pgrep", "-x", "ARDAgent")
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exit *exec.ExitError
	if errors.As(err, &exit) && exit.ExitCode() == 1 {
		return false, nil
	}
	return false, fmt.Errorf("probe ARDAgent: %w", err)
}

func (s *KickstartService) Activate(ctx context.Context) error {
	return s.run(ctx, "-activate", "-configure", "-access", "-on", "-restart", "-agent")
}

func (s *KickstartService) Deactivate(ctx context.Context) error {
	return s.run(ctx, "-deactivate", "-stop")
}

func (s *KickstartService) run(ctx context.Context, args ...string) error {
	out, err := exec.CommandContext(ctx, s.binary(), args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("kickstart %v: %w: %s", args, err, out)
	}
	return nil
}
