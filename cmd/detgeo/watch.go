package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/fgjorup/detgeo/internal/config"
	"github.com/fgjorup/detgeo/internal/logging"
	"github.com/fgjorup/detgeo/pkg/engine"
	"github.com/fgjorup/detgeo/pkg/viewer"
	"github.com/fgjorup/detgeo/pkg/watcher"
)

var (
	watchOutput string
	watchCIFDir string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompute whenever the settings file or a CIF file changes",
	Long: `Watch the settings file given with --config and, optionally, a directory
of CIF files. Every change recomputes the frame; new or edited CIF files are
imported and selected as the reference. Frames are written to --output as PNG,
or summarised on stdout when no output is given.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "PNG file rewritten on every change")
	watchCmd.Flags().StringVar(&watchCIFDir, "cif-dir", "", "directory watched for CIF files")
	watchCmd.Flags().IntVar(&renderSize, "size", 0, "image height in pixels (default plo.plot_size)")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if cfgFile == "" {
		return errors.New("watch needs a settings file, pass --config")
	}
	log := logging.NamedLogger("watch")

	st, err := newState()
	if err != nil {
		return err
	}

	deliver := func(r engine.Request, f *engine.Frame, err error) {
		if err != nil {
			log.Errorf("recompute failed: %v", err)
			return
		}
		if watchOutput != "" {
			if err := viewer.SavePNG(watchOutput, f, renderOptions()); err != nil {
				log.Error(err)
				return
			}
			log.Infof("%s updated", watchOutput)
			return
		}
		printFrame(cmd, st.Title(), f)
	}
	sched := engine.NewScheduler(st.Compute, deliver)
	defer sched.Close()

	submit := func() {
		if err := sched.Submit(st.Request()); err != nil {
			log.Debug(err)
		}
	}

	fw, err := watcher.NewFileWatcher(200 * time.Millisecond)
	if err != nil {
		return err
	}
	defer fw.Close()

	err = fw.Watch([]string{cfgFile}, func(path string) {
		s, err := config.Load(v, path)
		if err != nil {
			log.Errorf("ignoring %s: %v", path, err)
			return
		}
		if err := st.Reload(s); err != nil {
			log.Errorf("ignoring %s: %v", path, err)
			return
		}
		log.Infof("reloaded %s", path)
		submit()
	})
	if err != nil {
		return err
	}

	if watchCIFDir != "" {
		err = fw.WatchDir(watchCIFDir, ".cif", func(path string) {
			if _, err := st.ImportCIF(path); err != nil {
				log.Errorf("ignoring %s: %v", path, err)
				return
			}
			submit()
		})
		if err != nil {
			return err
		}
	}

	fw.Start()
	submit()
	log.Infof("watching %s", cfgFile)

	<-cmd.Context().Done()
	return nil
}
