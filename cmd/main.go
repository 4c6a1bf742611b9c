// dosinput - host input translation for emulated DOS PCs
// Translates host keyboard and mouse input into scan codes and mouse events for an
// emulation runtime, locally or over UDP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dosinput/internal/api"
	"dosinput/internal/autostart"
	"dosinput/internal/config"
	"dosinput/internal/console"
	"dosinput/internal/emulator"
	"dosinput/internal/hotkey"
	"dosinput/internal/input"
	"dosinput/internal/logging"
	"dosinput/internal/network"
	"dosinput/internal/osutils"
	"dosinput/internal/protocol"
	"dosinput/internal/tray"
)

var (
	version = "0.1.0"
	cfgFile string
	noTray  bool
)

var rootCmd = &cobra.Command{
	Use:   "dosinput",
	Short: "Host input translation for emulated DOS PCs",
	Long: `dosinput translates host keyboard and mouse input into the event model of an
emulated DOS PC: set-1 scan codes, emulated modifier flags and normalized mouse motion.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dosinput version %s\n", version)
	},
}

var layoutCmd = &cobra.Command{
	Use:   "layout [input-method-id]",
	Short: "Show the DOS keyboard layout for an input method (default: the active one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			fmt.Printf("%s -> %s\n", args[0], input.LayoutFor(args[0]))
			return nil
		}
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		source := osutils.InputMethodSource(cfg.Input.InputMethod)
		id, err := source()
		if err != nil {
			fmt.Printf("input method unavailable (%v), using default -> %s\n", err, input.DefaultKeyboardLayout)
			return nil
		}
		fmt.Printf("%s -> %s\n", id, input.NewLayoutResolver(source).CurrentLayout())
		return nil
	},
}

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "List the input method to DOS layout table",
	Run: func(cmd *cobra.Command, args []string) {
		mappings := input.KeyboardLayoutMappings()
		ids := make([]string, 0, len(mappings))
		for id := range mappings {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Printf("%-40s %s\n", id, mappings[id])
		}
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the host key to scan code table and the canned keys",
	Run: func(cmd *cobra.Command, args []string) {
		mappings := input.KeyCodeMappings()
		codes := make([]input.HostKeyCode, 0, len(mappings))
		for code := range mappings {
			codes = append(codes, code)
		}
		sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
		for _, code := range codes {
			scan := mappings[code]
			extended := ""
			if scan.Extended() {
				extended = " (extended)"
			}
			fmt.Printf("host 0x%02X -> scan 0x%04X%s\n", uint16(code), uint16(scan), extended)
		}
		fmt.Println()
		for _, name := range input.NamedKeys() {
			code, _ := input.NamedKeyCode(name)
			fmt.Printf("%-6s host 0x%02X\n", name, uint16(code))
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Forward host input from a capture frontend to emulation runtimes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runService()
	},
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Translate terminal input interactively and show the emulated events",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole()
	},
}

var monitorCmd = &cobra.Command{
	Use:   "monitor <sender-addr>",
	Short: "Act as an emulation runtime and log the events a sender streams",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMonitor(args[0])
	},
}

var autostartCmd = &cobra.Command{
	Use:       "autostart [enable|disable|status]",
	Short:     "Manage starting the tray service at login",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"enable", "disable", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "status"
		if len(args) == 1 {
			action = args[0]
		}
		switch action {
		case "enable":
			if err := autostart.Enable(); err != nil {
				return err
			}
		case "disable":
			if err := autostart.Disable(); err != nil {
				return err
			}
		}
		if autostart.IsEnabled() {
			fmt.Println("auto-start: enabled")
		} else {
			fmt.Println("auto-start: disabled")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is dosinput.toml in the user config dir)")
	runCmd.Flags().BoolVar(&noTray, "no-tray", false, "run without the system tray icon")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(layoutsCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(autostartCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newHandler builds a handler wired to the platform probes
func newHandler(cfg *config.Config, logger *zap.Logger) *input.Handler {
	return input.NewHandler(input.Options{
		Modifiers:   osutils.ModifierSource(),
		InputMethod: osutils.InputMethodSource(cfg.Input.InputMethod),
		Sensitivity: cfg.Input.MouseSensitivity,
		MouseActive: cfg.Input.MouseActive,
		Logger:      logger.Named("input"),
	})
}

// startSender starts the UDP link emulation runtimes register on
func startSender(cfg *config.Config, logger *zap.Logger) (*network.UDPSender, error) {
	if err := osutils.EnsureFirewallRule(cfg.Network.EmulatorPort, logger); err != nil {
		logger.Warn("firewall rule not applied", zap.Error(err))
	}
	sender := network.NewUDPSender(cfg.Network.EmulatorPort, cfg.Network.Redundancy, logger)
	if err := sender.Start(); err != nil {
		return nil, err
	}
	return sender, nil
}

func runService() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	sender, err := startSender(cfg, logger)
	if err != nil {
		return err
	}
	defer sender.Stop()

	session := emulator.NewSession(logger.Named("session"), emulator.LogSink(logger.Named("events")), sender)
	h := newHandler(cfg, logger)
	h.SetEmulator(session)

	logger.Info("starting",
		zap.String("version", version),
		zap.String("session", session.ID().String()),
		zap.String("layout", h.KeyboardLayout()))

	hotkeys := hotkey.NewManager(logger)
	if err := hotkeys.Register(cfg.Input.ReleaseHotkey, h.LostFocus); err != nil {
		return err
	}
	if err := hotkeys.Register(cfg.Input.MouseHotkey, func() { h.SetMouseActive(!h.MouseActive()) }); err != nil {
		return err
	}

	modifiers := osutils.ModifierSource()
	intercept := func(p protocol.HostInputPayload) bool {
		return hotkeys.Intercept(p, modifiers)
	}

	if cfg.API.Addr != "" {
		apiServer := api.NewServer(h, session, cfg.API.Token, logger)
		apiServer.Intercept = intercept
		apiServer.OnDisconnect = hotkeys.Reset
		go func() {
			if err := apiServer.Start(cfg.API.Addr); err != nil {
				logger.Warn("API server stopped", zap.Error(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			apiServer.Stop(ctx)
		}()
	}

	if cfg.Network.CaptureAddr != "" {
		client := network.NewWSClient(cfg.Network.CaptureAddr, cfg.Network.CaptureToken, version, logger)
		client.OnInput = func(p protocol.HostInputPayload) {
			if intercept(p) {
				return
			}
			if err := network.Dispatch(h, p); err != nil {
				logger.Warn("rejected host input", zap.Error(err))
			}
		}
		// The frontend can no longer report releases for keys it saw go down
		client.OnDisconnect = func() {
			hotkeys.Reset()
			h.LostFocus()
		}
		client.Start()
		defer client.Close()
	} else if cfg.API.Addr == "" {
		logger.Warn("no capture frontend configured (network.capture_addr or api.addr)")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if noTray {
		logger.Info("running, press Ctrl+C to stop")
		<-sigCh
		logger.Info("shutting down")
		h.LostFocus()
		return nil
	}

	t := tray.New("dosinput " + version)
	tray.BuildMenu(t, h, autostart.LoginItem{}, t.Stop)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		t.Stop()
	}()

	logger.Info("running in system tray, press Ctrl+C to stop")
	t.Run()
	h.LostFocus()
	return nil
}

func runConsole() error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	// The terminal is taken over by the console, so only warnings and errors are logged
	logger = logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	defer logger.Sync()

	sender, err := startSender(cfg, logger)
	if err != nil {
		return err
	}
	defer sender.Stop()

	recorder := emulator.NewRecorder(100)
	session := emulator.NewSession(logger, recorder, sender)
	// Terminals report modifiers with every event, so the OS is not polled for them
	h := input.NewHandler(input.Options{
		InputMethod: osutils.InputMethodSource(cfg.Input.InputMethod),
		Sensitivity: cfg.Input.MouseSensitivity,
		MouseActive: cfg.Input.MouseActive,
		Logger:      logger.Named("input"),
	})
	h.SetEmulator(session)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return console.New(screen, h, recorder, logger).Run(ctx)
}

func runMonitor(addr string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Events are logged at debug level; the monitor always shows them
	events, err := logging.New("debug", cfg.Log.Format)
	if err != nil {
		return err
	}
	session := emulator.NewSession(logger.Named("runtime"), emulator.LogSink(events.Named("events")))

	receiver := network.NewUDPReceiver(addr, session, logger)
	if !receiver.Probe() {
		logger.Warn("sender did not answer, registering anyway", zap.String("addr", addr))
	}
	if err := receiver.Start(); err != nil {
		return err
	}
	defer receiver.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("monitoring, press Ctrl+C to stop", zap.String("sender", addr), zap.String("session", session.ID().String()))
	<-sigCh
	logger.Info("shutting down")
	return nil
}
