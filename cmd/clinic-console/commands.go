package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jrsteele09/clinic-console/clinicapi"
	"github.com/jrsteele09/clinic-console/clinicmodel"
	"github.com/jrsteele09/clinic-console/users"
	"github.com/spf13/cobra"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func table(header string, rows func(w *tabwriter.Writer)) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	return w.Flush()
}

func listFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 0, "Page number")
	cmd.Flags().Int("limit", 0, "Page size")
}

func listOptions(cmd *cobra.Command) clinicapi.ListOptions {
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	return clinicapi.ListOptions{Page: page, Limit: limit}
}

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				user, err := c.Login(ctx, email, password)
				if err != nil {
					return err
				}
				fmt.Printf("Signed in as %s (%s)\n", user.FullName(), user.Role)
				return nil
			})
		},
	}
	cmd.Flags().String("email", "", "Account email or username")
	cmd.Flags().String("password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				c.Logout()
				fmt.Println("Signed out")
				return nil
			})
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user, refreshed from the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				if !c.Session().IsAuthenticated() {
					fmt.Println("Not signed in")
					return nil
				}
				user, err := c.Profile(ctx)
				if err != nil {
					return err
				}
				return printJSON(user)
			})
		},
	}
}

func routeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <path>",
		Short: "Show what the route guard decides for a console path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				d, m := c.Navigate(args[0])
				fmt.Printf("%s", d.Outcome)
				if d.Location != "" {
					fmt.Printf(" -> %s", d.Location)
				}
				if m.Route.Pattern != "" {
					fmt.Printf(" (%s)", m.Route.Pattern)
				}
				fmt.Println()
				return nil
			})
		},
	}
}

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show statistics, today's appointments and recent patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				dash, err := c.Dashboard(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Patients: %d  Appointments: %d  Prescriptions: %d  Active users: %d\n\n",
					dash.Stats.TotalPatients, dash.Stats.TotalAppointments, dash.Stats.TotalPrescriptions, dash.Stats.ActiveUsers)
				if err := printAppointments(dash.TodayAppointments.Appointments); err != nil {
					return err
				}
				fmt.Println()
				return printPatients(dash.RecentPatients.Patients)
			})
		},
	}
}

func printPatients(patients []clinicmodel.Patient) error {
	return table("ID\tNAME\tPHONE\tSTATUS", func(w *tabwriter.Writer) {
		for _, p := range patients {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.FullName(), p.Phone, p.Status)
		}
	})
}

func printAppointments(appointments []clinicmodel.Appointment) error {
	return table("ID\tDATE\tTIME\tPATIENT\tDOCTOR\tTYPE\tSTATUS", func(w *tabwriter.Writer) {
		for _, a := range appointments {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.AppointmentDate, a.AppointmentTime, a.PatientID, a.DoctorID, a.Type, a.Status)
		}
	})
}

func patientsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "patients", Short: "Browse and update patients"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				res, err := c.Patients(ctx, listOptions(cmd), clinicmodel.PatientStatus(status))
				if err != nil {
					return err
				}
				fmt.Printf("Page %d of %d, %d patients\n", res.CurrentPage, res.TotalPages, res.Total)
				return printPatients(res.Patients)
			})
		},
	}
	listFlags(list)
	list.Flags().String("status", "", "Filter by status (active, inactive, discharged)")

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search patients by name, email or phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				res, err := c.SearchPatients(ctx, args[0], listOptions(cmd))
				if err != nil {
					return err
				}
				return printPatients(res.Patients)
			})
		},
	}
	listFlags(search)

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				p, err := c.Patient(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(p)
			})
		},
	}

	status := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change a patient's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				p, err := c.UpdatePatientStatus(ctx, args[0], clinicmodel.PatientStatus(args[1]))
				if err != nil {
					return err
				}
				fmt.Printf("%s is now %s\n", p.FullName(), p.Status)
				return nil
			})
		},
	}

	cmd.AddCommand(list, search, get, status)
	return cmd
}

func appointmentsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "appointments", Short: "Browse and update appointments"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				res, err := c.Appointments(ctx, listOptions(cmd), clinicmodel.AppointmentStatus(status))
				if err != nil {
					return err
				}
				return printAppointments(res.Appointments)
			})
		},
	}
	listFlags(list)
	list.Flags().String("status", "", "Filter by status")

	on := &cobra.Command{
		Use:   "on <YYYY-MM-DD>",
		Short: "List appointments on a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				res, err := c.AppointmentsByDate(ctx, args[0], listOptions(cmd))
				if err != nil {
					return err
				}
				return printAppointments(res.Appointments)
			})
		},
	}
	listFlags(on)

	status := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change an appointment's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				a, err := c.UpdateAppointmentStatus(ctx, args[0], clinicmodel.AppointmentStatus(args[1]))
				if err != nil {
					return err
				}
				fmt.Printf("Appointment %s is now %s\n", a.ID, a.Status)
				return nil
			})
		},
	}

	cmd.AddCommand(list, on, status)
	return cmd
}

func prescriptionsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "prescriptions", Short: "Browse prescriptions"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List prescriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				res, err := c.Prescriptions(ctx, listOptions(cmd), clinicmodel.PrescriptionStatus(status))
				if err != nil {
					return err
				}
				return table("ID\tDATE\tPATIENT\tDOCTOR\tSTATUS", func(w *tabwriter.Writer) {
					for _, p := range res.Prescriptions {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.PrescriptionDate, p.PatientID, p.DoctorID, p.Status)
					}
				})
			})
		},
	}
	listFlags(list)
	list.Flags().String("status", "", "Filter by status")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a prescription with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				p, err := c.Prescription(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(p)
			})
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Manage staff accounts"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List users (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, _ := cmd.Flags().GetString("role")
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				res, err := c.Users(ctx, listOptions(cmd), users.RoleType(role))
				if err != nil {
					return err
				}
				return table("ID\tNAME\tEMAIL\tROLE\tACTIVE", func(w *tabwriter.Writer) {
					for _, u := range res.Users {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.FullName(), u.Email, u.Role, u.IsActive)
					}
				})
			})
		},
	}
	listFlags(list)
	list.Flags().String("role", "", "Filter by role (admin, doctor, nurse)")

	cmd.AddCommand(list)
	return cmd
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show clinic statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			generate, _ := cmd.Flags().GetBool("generate")
			return withConsole(cmd, func(ctx context.Context, c *console) error {
				var stats clinicmodel.Stats
				var err error
				if generate {
					stats, err = c.GenerateStats(ctx)
				} else {
					stats, err = c.LatestStats(ctx)
				}
				if err != nil {
					return err
				}
				return printJSON(stats)
			})
		},
	}
	cmd.Flags().Bool("generate", false, "Recompute the statistics first (admin only)")
	return cmd
}
