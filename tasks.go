package fwdeploy

import (
	"context"
	"maps"
	"os"
	"slices"

	"github.com/goyek/goyek/v3"
)

// Options are the command-line settings shared by all tasks.
// They are read when a task runs, after flags have been parsed.
type Options struct {
	// ConfigFile is the settings file. Empty means DefaultSettingsFile if present.
	ConfigFile string
	// EnvFile is a dotenv file replaying a captured build environment.
	EnvFile string
}

// Tasks holds the registered fwdeploy tasks.
type Tasks struct {
	// Copy resolves the closure and copies what is missing.
	Copy *goyek.DefinedTask

	// Resolve prints the closure and the copy schedule without copying.
	Resolve *goyek.DefinedTask

	// Version prints the fwdeploy version.
	Version *goyek.DefinedTask
}

// NewTasks defines the fwdeploy tasks in the goyek registry.
func NewTasks(opts *Options) *Tasks {
	if opts == nil {
		opts = &Options{}
	}
	t := &Tasks{}

	t.Copy = goyek.Define(goyek.Task{
		Name:  "copy",
		Usage: "copy the dependency closure of the input frameworks into the app bundle",
		Action: func(a *goyek.A) {
			ctx, run, err := prepare(a, opts)
			if err != nil {
				a.Fatal(err)
			}
			inspector := NewInspector(run.env.SourceDir, run.settings)
			copier := CommandCopier{Command: run.settings.Copy}
			if err := Run(ctx, run.env, inspector, copier, run.settings); err != nil {
				a.Fatal(err)
			}
		},
	})

	t.Resolve = goyek.Define(goyek.Task{
		Name:  "resolve",
		Usage: "print the dependency closure and what would be copied",
		Action: func(a *goyek.A) {
			ctx, run, err := prepare(a, opts)
			if err != nil {
				a.Fatal(err)
			}
			if len(run.env.Roots) == 0 {
				Println(ctx, "Nothing to do.")
				return
			}
			res, err := Resolve(ctx, run.env, NewInspector(run.env.SourceDir, run.settings), run.settings)
			if err != nil {
				a.Fatal(err)
			}
			PrintResult(ctx, res)
		},
	})

	t.Version = goyek.Define(goyek.Task{
		Name:  "version",
		Usage: "print the fwdeploy version",
		Action: func(a *goyek.A) {
			Println(taskContext(a), version())
		},
	})

	return t
}

// Undefine removes the tasks from the goyek registry.
func (t *Tasks) Undefine() {
	for _, task := range []*goyek.DefinedTask{t.Copy, t.Resolve, t.Version} {
		if task != nil {
			goyek.Undefine(task)
		}
	}
}

type runInput struct {
	env      Environment
	settings Settings
	// replayed holds the values read from Options.EnvFile.
	replayed map[string]string
}

// prepare loads the run input for a task and exports replayed values to
// the commands it starts.
func prepare(a *goyek.A, opts *Options) (context.Context, runInput, error) {
	ctx := taskContext(a)
	run, err := load(opts, os.LookupEnv)
	if err != nil {
		return ctx, runInput{}, err
	}
	if opts.EnvFile != "" {
		Debugf(ctx, "Environment file: %s", opts.EnvFile)
	}
	for _, k := range slices.Sorted(maps.Keys(run.replayed)) {
		ctx = ContextWithEnv(ctx, k+"="+run.replayed[k])
	}
	return ctx, run, nil
}

// load reads the build environment and then the settings file. A missing
// Xcode context is reported before any problem with the settings file.
func load(opts *Options, lookup LookupFunc) (runInput, error) {
	var run runInput
	if opts.EnvFile != "" {
		values, err := ReadEnvFile(opts.EnvFile)
		if err != nil {
			return runInput{}, err
		}
		run.replayed = values
		lookup = OverlayLookup(values, lookup)
	}

	env, err := LoadEnvironment(lookup)
	if err != nil {
		return runInput{}, err
	}
	run.env = env

	settings, err := LoadSettings(opts.ConfigFile)
	if err != nil {
		return runInput{}, err
	}
	run.settings = settings
	return run, nil
}

// taskContext returns the task's context with console output attached.
// Debug output goes to the task log, which goyek shows with -v or on failure.
func taskContext(a *goyek.A) context.Context {
	return ContextWithOutput(a.Context(), &Output{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Debug:  a.Output(),
	})
}
