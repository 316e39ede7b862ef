// Command drmkms-probe opens a DRM device and reports its path, whether
// DRM master was acquired, and whether the device is active. It does not
// enumerate connectors or planes and does not issue a commit. It is a
// diagnostic tool only, not an example compositor.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/wlcore/compositor-core/api/pkg/config"
	"github.com/wlcore/compositor-core/api/pkg/drmkms"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var devicePath string

	cmd := &cobra.Command{
		Use:   "drmkms-probe",
		Short: "Open a DRM/KMS device and report its privilege and active state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(devicePath)
		},
	}
	cmd.Flags().StringVar(&devicePath, "device", "", "DRM device path (defaults to $COMPOSITOR_DRM_DEVICE or /dev/dri/card0)")
	return cmd
}

func runProbe(devicePath string) error {
	cfg, err := config.LoadCoreConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log.Logger = cfg.Log.Logger()

	if devicePath == "" {
		devicePath = cfg.DRM.Device
	}

	device, err := drmkms.Open(devicePath, cfg.Log.SlogLogger())
	if err != nil {
		return fmt.Errorf("open %s: %w", devicePath, err)
	}
	defer device.Close()

	log.Info().Str("path", devicePath).Bool("privileged", device.Privileged()).Msg("opened device")

	fmt.Printf("device:     %s\n", devicePath)
	fmt.Printf("privileged: %v\n", device.Privileged())
	fmt.Printf("active:     %v\n", device.Active())

	return nil
}
