package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"attendancedesk/internal/attendance"
	"attendancedesk/internal/auth"
	"attendancedesk/internal/client"
	"attendancedesk/internal/config"
	"attendancedesk/internal/records"
	"attendancedesk/internal/store"
)

type commandLine struct {
	cfg    config.App
	out    io.Writer
	apiURL string
	token  string
}

func (cli *commandLine) client() *client.Client {
	return client.New(cli.apiURL, cli.token)
}

func (cli *commandLine) print(v any) error {
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newCommandLine(cfg config.App, out io.Writer) *cobra.Command {
	cli := &commandLine{cfg: cfg, out: out}

	root := &cobra.Command{
		Use:           "attendctl",
		Short:         "Manage students, lectures, modules and attendance records",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.SetErr(out)
	root.PersistentFlags().StringVar(&cli.apiURL, "api-url", cfg.APIURL, "attendance API base URL")
	root.PersistentFlags().StringVar(&cli.token, "token", cfg.APIToken, "staff bearer token")

	root.AddCommand(
		cli.tokenCmd(),
		cli.migrateCmd(),
		cli.studentsCmd(),
		cli.lecturesCmd(),
		cli.modulesCmd(),
		cli.recordsCmd(),
	)
	return root
}

func (cli *commandLine) tokenCmd() *cobra.Command {
	var subject, role string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a staff access token with the configured signing key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tok, err := auth.Issue(subject, role, cli.cfg.JWTIssuer, cli.cfg.JWTSigningKey, ttl)
			if err != nil {
				return err
			}
			return cli.print(map[string]any{"accessToken": tok.AccessToken, "expiresAt": tok.ExpiresAt})
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "staff member the token is issued to")
	cmd.Flags().StringVar(&role, "role", firstOr(cli.cfg.StaffRoles, "staff"), "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", cli.cfg.AccessTTL, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema for the configured SQL store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := store.Open(cmd.Context(), cli.cfg)
			if err != nil {
				return err
			}
			defer backend.Close()
			fmt.Fprintf(cli.out, "schema ready (%s)\n", cli.cfg.StoreDriver)
			return nil
		},
	}
}

func (cli *commandLine) studentsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "students", Short: "Student procedures"}

	var in attendance.CreateStudentInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a student",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := cli.client().CreateStudent(cmd.Context(), in)
			if err != nil {
				return err
			}
			return cli.print(st)
		},
	}
	add.Flags().StringVar(&in.StudentID, "id", "", "student id (max 8 characters)")
	add.Flags().StringVar(&in.StudentCardID, "card", "", "student card id")
	add.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	add.Flags().StringVar(&in.LastName, "last-name", "", "last name")

	var firstName string
	del := &cobra.Command{
		Use:   "delete STUDENT_ID",
		Short: "Delete a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cli.client().DeleteStudentByID(cmd.Context(), attendance.DeleteStudentInput{StudentID: args[0], FirstName: firstName})
			if err != nil {
				return err
			}
			return cli.print(st)
		},
	}
	del.Flags().StringVar(&firstName, "first-name", "", "optional, ignored by the server")

	cmd.AddCommand(
		add,
		del,
		cli.listCmd("list", "List students", func(ctx context.Context) (any, error) { return cli.client().GetAllStudents(ctx) }),
		cli.listCmd("ids", "List student ids", func(ctx context.Context) (any, error) { return cli.client().GetAllStudentIDs(ctx) }),
		cli.listCmd("count", "Count students", func(ctx context.Context) (any, error) { return cli.client().GetStudentCount(ctx) }),
		&cobra.Command{
			Use:   "find CARD_ID",
			Short: "Find a student by card id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := cli.client().GetStudentByID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return cli.print(st)
			},
		},
	)
	return cmd
}

func (cli *commandLine) lecturesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "lectures", Short: "Lecture procedures"}

	var (
		in         attendance.CreateLectureInput
		start, end string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a lecture (times in RFC 3339)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if in.StartTime, err = time.Parse(time.RFC3339, start); err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			if in.EndTime, err = time.Parse(time.RFC3339, end); err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			lecture, err := cli.client().CreateNewLecture(cmd.Context(), in)
			if err != nil {
				return err
			}
			return cli.print(lecture)
		},
	}
	add.Flags().StringVar(&in.LectureID, "id", "", "lecture id")
	add.Flags().StringVar(&in.ModuleID, "module", "", "module id")
	add.Flags().StringVar(&start, "start", "", "start time")
	add.Flags().StringVar(&end, "end", "", "end time")

	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "delete LECTURE_ID",
			Short: "Delete a lecture",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				lecture, err := cli.client().DeleteLectureRecordByID(cmd.Context(), attendance.DeleteLectureInput{LectureID: args[0]})
				if err != nil {
					return err
				}
				return cli.print(lecture)
			},
		},
		cli.listCmd("list", "List lectures", func(ctx context.Context) (any, error) { return cli.client().GetAllLectures(ctx) }),
		cli.listCmd("with-modules", "List lectures with module names", func(ctx context.Context) (any, error) {
			return cli.client().GetAllLecturesWithModuleNames(ctx)
		}),
		cli.listCmd("ids", "List lecture ids", func(ctx context.Context) (any, error) { return cli.client().GetAllLectureIDs(ctx) }),
		cli.listCmd("ids-with-modules", "List lecture ids with module names", func(ctx context.Context) (any, error) {
			return cli.client().GetLectureIDsWithModuleNames(ctx)
		}),
		cli.listCmd("count", "Count lectures", func(ctx context.Context) (any, error) { return cli.client().GetLectureCount(ctx) }),
	)
	return cmd
}

func (cli *commandLine) modulesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "modules", Short: "Module procedures"}

	var in attendance.CreateModuleInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a module",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := cli.client().CreateModule(cmd.Context(), in)
			if err != nil {
				return err
			}
			return cli.print(m)
		},
	}
	add.Flags().StringVar(&in.ModuleID, "id", "", "module id")
	add.Flags().StringVar(&in.ModuleName, "name", "", "module name")

	cmd.AddCommand(add,
		cli.listCmd("list", "List modules", func(ctx context.Context) (any, error) { return cli.client().GetAllModules(ctx) }),
	)
	return cmd
}

func (cli *commandLine) recordsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "records", Short: "Attendance record procedures"}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show the attendance record table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := records.NewTable(cli.client(), cli.cfg.Location(), nil)
			if err := table.Load(cmd.Context()); err != nil {
				return err
			}
			return records.RenderText(cli.out, table.Rows())
		},
	}

	del := &cobra.Command{
		Use:   "delete RECORD_ID",
		Short: "Delete a record and show the refreshed table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := records.NewTable(cli.client(), cli.cfg.Location(), func(s records.State) {
				if s.Deleting {
					fmt.Fprintf(cli.out, "deleting %s...\n", s.ID)
				}
			})
			if err := table.Load(cmd.Context()); err != nil {
				return err
			}
			if err := <-table.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return records.RenderText(cli.out, table.Rows())
		},
	}

	edit := &cobra.Command{
		Use:   "edit RECORD_ID",
		Short: "Edit a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := records.NewTable(cli.client(), cli.cfg.Location(), nil)
			if err := table.Edit(args[0]); err != nil {
				fmt.Fprintln(cli.out, records.Notice(err))
			}
			return nil
		},
	}

	var in attendance.CreateRecordInput
	checkin := &cobra.Command{
		Use:   "checkin",
		Short: "Queue a check-in; the status is derived from the lecture start unless given",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cli.client().CheckIn(cmd.Context(), in); err != nil {
				return err
			}
			fmt.Fprintln(cli.out, "check-in queued")
			return nil
		},
	}
	checkin.Flags().StringVar(&in.StudentID, "student", "", "student id")
	checkin.Flags().StringVar(&in.LectureID, "lecture", "", "lecture id")
	checkin.Flags().StringVar(&in.Status, "status", "", "present, late or absent")

	cmd.AddCommand(list, del, edit, checkin,
		cli.listCmd("raw", "List records as JSON", func(ctx context.Context) (any, error) { return cli.client().GetAllAttendanceRecords(ctx) }),
	)
	return cmd
}

func (cli *commandLine) listCmd(use, short string, fetch func(ctx context.Context) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := fetch(cmd.Context())
			if err != nil {
				return err
			}
			return cli.print(v)
		},
	}
}

func firstOr(vals []string, fallback string) string {
	if len(vals) > 0 {
		return vals[0]
	}
	return fallback
}
