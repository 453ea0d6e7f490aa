// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/arbor/internal/commands"
	"github.com/temirov/arbor/internal/config"
	"github.com/temirov/arbor/internal/gitstatus"
	"github.com/temirov/arbor/internal/ignore"
	"github.com/temirov/arbor/internal/output"
	"github.com/temirov/arbor/internal/services/clipboard"
	"github.com/temirov/arbor/internal/types"
	"github.com/temirov/arbor/internal/utils"
	"github.com/temirov/arbor/internal/walker"
)

const (
	showHiddensFlagName    = "show-hiddens"
	showGitignoredFlagName = "show-gitignored"
	depthFlagName          = "depth"
	dirsOnlyFlagName       = "dirs-only"
	filesOnlyFlagName      = "files-only"
	pruneEmptyFlagName     = "prune-empty"
	jsonFlagName           = "json"
	xmlFlagName            = "xml"
	countFlagName          = "count"
	colorFlagName          = "color"
	iconsFlagName          = "icons"
	gitFlagName            = "git"
	gitBranchFlagName      = "git-branch"
	excludeFlagName        = "exclude"
	timeFlagName           = "time"
	verboseFlagName        = "verbose"
	copyFlagName           = "copy"
	configFlagName         = "config"
	versionFlagName        = "version"
	globalFlagName         = "global"
	forceFlagName          = "force"

	showHiddensFlagDescription    = "show hidden files and directories"
	showGitignoredFlagDescription = "show entries excluded by ignore rules"
	depthFlagDescription          = "maximum depth to descend (positive integer)"
	dirsOnlyFlagDescription       = "show directories only"
	filesOnlyFlagDescription      = "show files only, keeping their parent directories"
	pruneEmptyFlagDescription     = "omit directories without any file descendants"
	jsonFlagDescription           = "print the tree as JSON"
	xmlFlagDescription            = "print the tree as XML"
	countFlagDescription          = "print directory and file totals only"
	colorFlagDescription          = "colorize output: auto, always or never"
	iconsFlagDescription          = "prefix names with file type icons"
	gitFlagDescription            = "annotate files with git status"
	gitBranchFlagDescription      = "print the current git branch before the tree"
	excludeFlagDescription        = "exclude path pattern (repeatable)"
	timeFlagDescription           = "print elapsed time to stderr"
	verboseFlagDescription        = "enable debug logging"
	copyFlagDescription           = "copy the rendered output to the clipboard"
	configFlagDescription         = "path to a configuration file used instead of ./" + utils.ConfigFileName
	versionFlagDescription        = "display application version"
	globalFlagDescription         = "write the configuration to the global location"
	forceFlagDescription          = "overwrite an existing configuration file"

	versionTemplate      = utils.ApplicationName + " version: %s\n"
	defaultPath          = "."
	rootUse              = utils.ApplicationName + " [path]"
	rootShortDescription = "arbor prints directory trees"
	rootLongDescription  = `arbor walks a directory and prints its structure.
Hidden entries and entries excluded by .gitignore rules are skipped unless requested.
Use --json, --xml or --count to select another output, --git to annotate files with
their git status, and --copy to place the result on the clipboard.`
	rootUsageExample = `  # Two levels of the current directory with icons
  arbor -d 2 -i

  # Git annotated tree with the branch name
  arbor -g -b ./cmd

  # Totals only
  arbor --count .`

	configUse                   = "config"
	configShortDescription      = "manage arbor configuration"
	configInitUse               = "init"
	configInitShortDescription  = "write a default configuration file"
	configInitializedFormat     = "configuration written to %s\n"
	timeLineFormat              = "time: %s\n"
	errorPathMissingFormat      = "path '%s' does not exist"
	errorStatFormat             = "stat failed for '%s': %w"
	errorWriteOutputFormat      = "writing output: %w"
	errorRenderOutputFormat     = "rendering %s output: %w"
	warningClipboardFormat      = "copying output to clipboard failed: %v"
	warningGitStatusFormat      = "git status unavailable for %s: %v"
	debugResolvedOptionsFormat  = "resolved options: %+v"
	debugRepositoryBranchFormat = "branch for %s: %s"
)

// Execute runs the arbor application.
func Execute() error {
	rootCommand := createRootCommand(clipboard.NewService())
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(copier clipboard.Copier) *cobra.Command {
	var flagValues config.Options
	var depthValue int
	var configurationPath string
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, writeError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return writeError
			}
			rootPath := defaultPath
			if len(arguments) > 0 {
				rootPath = arguments[0]
			}
			resolvedOptions, resolveError := resolveOptions(command.Flags(), flagValues, depthValue, configurationPath)
			if resolveError != nil {
				return resolveError
			}
			return runTree(command, rootPath, resolvedOptions, copier)
		},
	}

	flagSet := rootCommand.Flags()
	registerBooleanFlag(flagSet, &flagValues.ShowHiddens, showHiddensFlagName, "H", false, showHiddensFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.ShowGitignored, showGitignoredFlagName, "G", false, showGitignoredFlagDescription)
	flagSet.IntVarP(&depthValue, depthFlagName, "d", 0, depthFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.DirsOnly, dirsOnlyFlagName, "", false, dirsOnlyFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.FilesOnly, filesOnlyFlagName, "", false, filesOnlyFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.PruneEmpty, pruneEmptyFlagName, "", false, pruneEmptyFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.JSON, jsonFlagName, "j", false, jsonFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.XML, xmlFlagName, "", false, xmlFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.Count, countFlagName, "n", false, countFlagDescription)
	flagSet.StringVarP(&flagValues.Color, colorFlagName, "c", string(output.ColorAuto), colorFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.Icons, iconsFlagName, "i", false, iconsFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.Git, gitFlagName, "g", false, gitFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.GitBranch, gitBranchFlagName, "b", false, gitBranchFlagDescription)
	flagSet.StringArrayVarP(&flagValues.Exclude, excludeFlagName, "e", nil, excludeFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.Time, timeFlagName, "t", false, timeFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.Verbose, verboseFlagName, "v", false, verboseFlagDescription)
	registerBooleanFlag(flagSet, &flagValues.Copy, copyFlagName, "", false, copyFlagDescription)
	flagSet.StringVar(&configurationPath, configFlagName, "", configFlagDescription)
	flagSet.BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createConfigCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createConfigCommand returns the config command group with its init subcommand.
func createConfigCommand() *cobra.Command {
	var initGlobal bool
	var force bool

	configCommand := &cobra.Command{
		Use:          configUse,
		Short:        configShortDescription,
		SilenceUsage: true,
	}
	initCommand := &cobra.Command{
		Use:          configInitUse,
		Short:        configInitShortDescription,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if initGlobal {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			_, writeError := fmt.Fprintf(command.OutOrStdout(), configInitializedFormat, writtenPath)
			return writeError
		},
	}
	registerBooleanFlag(initCommand.Flags(), &initGlobal, globalFlagName, "", false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, "", false, forceFlagDescription)
	configCommand.AddCommand(initCommand)
	return configCommand
}

// resolveOptions layers configuration file values under the flags set on the command line
// and validates the result.
func resolveOptions(flagSet *pflag.FlagSet, flagValues config.Options, depthValue int, configurationPath string) (config.Options, error) {
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: configurationPath})
	if loadError != nil {
		return config.Options{}, loadError
	}

	resolved := config.Options{Color: string(output.ColorAuto)}
	applicationConfiguration.ApplyTo(&resolved)

	if flagSet.Changed(jsonFlagName) || flagSet.Changed(xmlFlagName) || flagSet.Changed(countFlagName) {
		resolved.JSON, resolved.XML, resolved.Count = false, false, false
	}
	overrides := map[string]func(){
		showHiddensFlagName:    func() { resolved.ShowHiddens = flagValues.ShowHiddens },
		showGitignoredFlagName: func() { resolved.ShowGitignored = flagValues.ShowGitignored },
		depthFlagName: func() {
			depth := depthValue
			resolved.Depth = &depth
		},
		dirsOnlyFlagName:   func() { resolved.DirsOnly = flagValues.DirsOnly },
		filesOnlyFlagName:  func() { resolved.FilesOnly = flagValues.FilesOnly },
		pruneEmptyFlagName: func() { resolved.PruneEmpty = flagValues.PruneEmpty },
		jsonFlagName:       func() { resolved.JSON = flagValues.JSON },
		xmlFlagName:        func() { resolved.XML = flagValues.XML },
		countFlagName:      func() { resolved.Count = flagValues.Count },
		colorFlagName:      func() { resolved.Color = flagValues.Color },
		iconsFlagName:      func() { resolved.Icons = flagValues.Icons },
		gitFlagName:        func() { resolved.Git = flagValues.Git },
		gitBranchFlagName:  func() { resolved.GitBranch = flagValues.GitBranch },
		excludeFlagName: func() {
			resolved.Exclude = utils.DeduplicatePatterns(append(resolved.Exclude, flagValues.Exclude...))
		},
		timeFlagName:    func() { resolved.Time = flagValues.Time },
		verboseFlagName: func() { resolved.Verbose = flagValues.Verbose },
		copyFlagName:    func() { resolved.Copy = flagValues.Copy },
	}
	for flagName, applyOverride := range overrides {
		if flagSet.Changed(flagName) {
			applyOverride()
		}
	}

	if validationError := resolved.Validate(); validationError != nil {
		return config.Options{}, validationError
	}
	return resolved, nil
}

// runTree executes the walk, annotate and render pipeline for one root.
func runTree(command *cobra.Command, rootPath string, options config.Options, copier clipboard.Copier) error {
	startTime := time.Now()

	logger, loggerError := utils.NewApplicationLogger(options.Verbose)
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug(fmt.Sprintf(debugResolvedOptionsFormat, options))

	if validationError := validateRootPath(rootPath); validationError != nil {
		return validationError
	}

	treeBuilder := commands.TreeBuilder{
		Options: commands.TreeOptions{
			Walk: walker.Options{
				IncludeHidden:     options.ShowHiddens,
				FollowIgnoreRules: !options.ShowGitignored,
				MaxDepth:          options.MaxDepth(),
				ExcludePatterns:   options.Exclude,
			},
			DirsOnly:   options.DirsOnly,
			FilesOnly:  options.FilesOnly,
			PruneEmpty: options.PruneEmpty,
		},
		Logger: logger,
	}
	if !options.ShowGitignored {
		ignoreMatcher, ignoreError := ignore.Load(rootPath, logger)
		if ignoreError != nil {
			return ignoreError
		}
		treeBuilder.Matcher = ignoreMatcher
	}

	rootNode, buildError := treeBuilder.GetTreeData(rootPath)
	if buildError != nil {
		return buildError
	}

	annotateMode := options.Format() != types.FormatCount
	if options.Git && annotateMode {
		annotateTree(rootNode, rootPath, gitstatus.NewRepositoryStatusProvider(logger), logger)
	}

	var rendered bytes.Buffer
	if options.GitBranch && annotateMode {
		if branchName, found := gitstatus.BranchName(rootPath); found {
			logger.Debug(fmt.Sprintf(debugRepositoryBranchFormat, rootPath, branchName))
			if branchError := output.RenderBranch(&rendered, branchName); branchError != nil {
				return fmt.Errorf(errorRenderOutputFormat, types.FormatTree, branchError)
			}
		}
	}
	if renderError := renderTree(&rendered, rootNode, options); renderError != nil {
		return fmt.Errorf(errorRenderOutputFormat, options.Format(), renderError)
	}

	if _, writeError := command.OutOrStdout().Write(rendered.Bytes()); writeError != nil {
		return fmt.Errorf(errorWriteOutputFormat, writeError)
	}
	if options.Copy && copier != nil {
		if copyError := copier.Copy(rendered.String()); copyError != nil {
			logger.Warn(fmt.Sprintf(warningClipboardFormat, copyError))
		}
	}
	if options.Time {
		if _, timeError := fmt.Fprintf(command.ErrOrStderr(), timeLineFormat, utils.FormatDuration(time.Since(startTime))); timeError != nil {
			return fmt.Errorf(errorWriteOutputFormat, timeError)
		}
	}
	return nil
}

// annotateTree attaches git states to file nodes. Repository failures degrade to an unannotated tree.
func annotateTree(rootNode *types.Node, rootPath string, statusProvider gitstatus.StatusProvider, logger *zap.Logger) {
	statusIndex, collectError := statusProvider.Collect(rootPath)
	if collectError != nil {
		logger.Warn(fmt.Sprintf(warningGitStatusFormat, rootPath, collectError))
		return
	}
	gitstatus.Annotate(rootNode, statusIndex)
}

func renderTree(buffer *bytes.Buffer, rootNode *types.Node, options config.Options) error {
	switch options.Format() {
	case types.FormatJSON:
		return output.RenderJSON(buffer, rootNode)
	case types.FormatXML:
		return output.RenderXML(buffer, rootNode)
	case types.FormatCount:
		return output.RenderCount(buffer, rootNode)
	default:
		return output.RenderTree(buffer, rootNode, options.ColorMode(), options.Icons)
	}
}

func validateRootPath(rootPath string) error {
	if _, statError := os.Stat(rootPath); statError != nil {
		if os.IsNotExist(statError) {
			return fmt.Errorf(errorPathMissingFormat, rootPath)
		}
		return fmt.Errorf(errorStatFormat, rootPath, statError)
	}
	return nil
}
