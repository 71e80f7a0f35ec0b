package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// execute runs one command line against a fresh command tree.
func (a *app) execute(args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.ExecuteContext(context.Background())
	if err == nil {
		return ExitSuccess
	}
	if strings.HasPrefix(err.Error(), "unknown command") || strings.HasPrefix(err.Error(), "unknown flag") {
		err = usageError(err)
	}
	fmt.Fprintf(a.errOut, "error: %s\n", describe(err))
	return exitCode(err)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "masomo",
		Short:         "Masomo LMS portal",
		Long:          "masomo is the command-line portal to the Masomo LMS: admins manage academic records and accounts, teachers author and grade exams, students take them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !contains(validFormats, a.format) {
				return usageError(errors.Errorf("invalid format %q (want one of %s)", a.format, strings.Join(validFormats, ", ")))
			}
			return a.authorize(cmd.Context(), cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.format, "format", "o", formatText, "output format: "+strings.Join(validFormats, ", "))
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError(err) })

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.openCmd(),
		a.registerCmd(),
		a.profileCmd(),
		a.academicCmd(),
		a.teachersCmd(),
		a.studentsCmd(),
		a.examsCmd(),
		a.questionsCmd(),
		a.studentExamsCmd(),
		a.resultsCmd(),
	)
	return root
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError(err)
	}
	return nil
}

// guarded annotates a command with the portal path it stands for.
func guarded(cmd *cobra.Command, path string, roles ...string) *cobra.Command {
	cmd.Annotations = map[string]string{annotationPath: path}
	if len(roles) > 0 {
		cmd.Annotations[annotationRoles] = strings.Join(roles, ",")
	}
	return cmd
}
