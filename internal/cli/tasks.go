package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/core"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/registry"
	"github.com/c1nderscript/Cinder-s-Webscraper/pkg/schedule"
)

// AddCmd schedules a catalog function, replacing any task with the same name.
func AddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <module:symbol> <interval>",
		Short: "Schedule a catalog function, replacing any task with the same name",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, interval, err := parseTarget(args[1], args[2])
			if err != nil {
				return err
			}
			return a.withRegistry(cmd, func(reg *registry.Registry) error {
				job, err := reg.AddLocatedTask(cmd.Context(), args[0], loc, interval)
				if err != nil {
					return fmt.Errorf("failed to add task: %w", err)
				}
				printf(cmd, "Task %q scheduled: %s every %s (next run %s)\n",
					job.Name, job.Locator, job.Interval, job.NextRun.Format("15:04:05"))
				return nil
			})
		},
	}
}

// CreateCmd creates a schedule, failing if the name is taken.
func CreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <module:symbol> <interval>",
		Short: "Persist a new schedule; fails if the name exists",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, interval, err := parseTarget(args[1], args[2])
			if err != nil {
				return err
			}
			return a.withRegistry(cmd, func(reg *registry.Registry) error {
				if err := reg.CreateSchedule(cmd.Context(), args[0], loc, interval); err != nil {
					return fmt.Errorf("failed to create schedule: %w", err)
				}
				printf(cmd, "Schedule %q created.\n", args[0])
				return nil
			})
		},
	}
}

// RemoveCmd removes a task and its schedule.
func RemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Cancel a task and delete its record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRegistry(cmd, func(reg *registry.Registry) error {
				removed, err := reg.RemoveTask(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to remove task: %w", err)
				}
				if !removed {
					printf(cmd, "No scheduled task named %q.\n", args[0])
					return nil
				}
				printf(cmd, "Task %q removed.\n", args[0])
				return nil
			})
		},
	}
}

// UpdateCmd changes the interval of an existing schedule.
func UpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <name> <interval>",
		Short: "Change the interval of a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, err := schedule.ParseInterval(args[1])
			if err != nil {
				return err
			}
			return a.withRegistry(cmd, func(reg *registry.Registry) error {
				changed, err := reg.UpdateSchedule(cmd.Context(), args[0], interval)
				if err != nil {
					return fmt.Errorf("failed to update schedule: %w", err)
				}
				if !changed {
					printf(cmd, "No schedule named %q.\n", args[0])
					return nil
				}
				printf(cmd, "Task %q now runs every %s.\n", args[0], interval)
				return nil
			})
		},
	}
}

// DeleteCmd deletes a schedule.
func DeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a schedule record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRegistry(cmd, func(reg *registry.Registry) error {
				removed, err := reg.DeleteSchedule(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to delete schedule: %w", err)
				}
				if !removed {
					printf(cmd, "No schedule named %q.\n", args[0])
					return nil
				}
				printf(cmd, "Schedule %q deleted.\n", args[0])
				return nil
			})
		},
	}
}

// GetCmd prints one schedule.
func GetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show the persisted interval of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRegistry(cmd, func(reg *registry.Registry) error {
				sched, err := reg.GetSchedule(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printf(cmd, "%s\tevery %s\n", sched.Name, sched.Interval)
				return nil
			})
		},
	}
}

// ListCmd prints every task, live or orphaned.
func ListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live tasks and orphaned records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRegistry(cmd, func(reg *registry.Registry) error {
				live := reg.Tasks()
				orphans := reg.Orphans()
				if len(live) == 0 && len(orphans) == 0 {
					printf(cmd, "No tasks scheduled.\n")
					return nil
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tFUNCTION\tINTERVAL\tNEXT RUN\tSTATUS")
				for _, job := range live {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						job.Name, job.Locator, job.Interval, job.NextRun.Format("2006-01-02 15:04:05"), "live")
				}
				for _, rec := range orphans {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						rec.Name, rec.Locator(), rec.Interval(), "-", "orphaned")
				}
				return tw.Flush()
			})
		},
	}
}

// SchedulesCmd prints the persisted schedules.
func SchedulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schedules",
		Short: "List persisted schedules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRegistry(cmd, func(reg *registry.Registry) error {
				schedules, err := reg.ListSchedules(cmd.Context())
				if err != nil {
					return err
				}
				if len(schedules) == 0 {
					printf(cmd, "No schedules stored.\n")
					return nil
				}
				for _, s := range schedules {
					printf(cmd, "%s\tevery %s\n", s.Name, s.Interval)
				}
				return nil
			})
		},
	}
}

// JobsCmd lists the functions in the job catalog.
func JobsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List the functions tasks can run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FUNCTION\tDESCRIPTION")
			for _, e := range a.catalog.Entries() {
				fmt.Fprintf(tw, "%s\t%s\n", e.Locator, e.Description)
			}
			return tw.Flush()
		},
	}
}

func parseTarget(locator, interval string) (core.Locator, time.Duration, error) {
	loc, err := core.ParseLocator(locator)
	if err != nil {
		return core.Locator{}, 0, err
	}
	d, err := schedule.ParseInterval(interval)
	if err != nil {
		return core.Locator{}, 0, err
	}
	return loc, d, nil
}
