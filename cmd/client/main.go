// cmd/client/main.go is a command-line client for the task API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/gurkanbulca/taskdeck/pkg/taskclient"
)

const usage = `usage: taskdeck <command> [flags]

commands:
  list     list tasks (--sort-by, --direction)
  get      show one task (--id)
  create   create a task (--title, --description, --status, --priority, --deadline)
  edit     edit a task (--id plus any field; "null" clears priority or deadline)
  delete   delete a task (--id)
  health   query the gRPC health endpoint (--grpc-addr)
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "taskdeck:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errors.New("missing command")
	}
	command, args := args[0], args[1:]

	flags := pflag.NewFlagSet(command, pflag.ContinueOnError)
	endpoint := flags.String("endpoint", envOr("TASKDECK_ENDPOINT", "http://localhost:8080/api/tasks"), "tasks resource URL")
	grpcAddr := flags.String("grpc-addr", envOr("TASKDECK_GRPC_ADDR", "localhost:50051"), "gRPC health address")
	asJSON := flags.Bool("json", false, "print raw JSON")
	timeout := flags.Duration("timeout", 10*time.Second, "request timeout")
	id := flags.String("id", "", "task id")
	title := flags.String("title", "", "task title; !1..!4 and !before DD-MM-YYYY are macros")
	description := flags.String("description", "", "task description")
	status := flags.String("status", "", "ACTIVE or COMPLETED")
	priority := flags.String("priority", "", "CRITICAL, HIGH, MEDIUM or LOW")
	deadline := flags.String("deadline", "", "deadline as YYYY-MM-DD")
	sortBy := flags.String("sort-by", "", "title, deadline or priority")
	direction := flags.String("direction", "", "ascending or descending")
	if err := flags.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()
	client := taskclient.New(*endpoint)

	switch command {
	case "list":
		tasks, err := client.List(ctx, *sortBy, *direction)
		if err != nil {
			return err
		}
		return printTasks(out, tasks, *asJSON)

	case "get":
		if *id == "" {
			return errors.New("--id is required")
		}
		task, err := client.Get(ctx, *id)
		if err != nil {
			return err
		}
		return printTasks(out, []taskclient.Task{*task}, *asJSON)

	case "create":
		req := taskclient.CreateRequest{
			Title:       *title,
			Description: *description,
			Status:      strings.ToUpper(*status),
		}
		if *priority != "" {
			p := strings.ToUpper(*priority)
			req.Priority = &p
		}
		if *deadline != "" {
			d, err := civil.ParseDate(*deadline)
			if err != nil {
				return fmt.Errorf("--deadline: %w", err)
			}
			req.Deadline = &d
		}
		task, err := client.Create(ctx, req)
		if err != nil {
			return err
		}
		return printTasks(out, []taskclient.Task{*task}, *asJSON)

	case "edit":
		if *id == "" {
			return errors.New("--id is required")
		}
		var req taskclient.UpdateRequest
		if flags.Changed("title") {
			req.Title = title
		}
		if flags.Changed("description") {
			req.Description = description
		}
		if flags.Changed("status") {
			s := strings.ToUpper(*status)
			req.Status = &s
		}
		if flags.Changed("priority") {
			if strings.EqualFold(*priority, "null") {
				req.ClearPriority = true
			} else {
				p := strings.ToUpper(*priority)
				req.Priority = &p
			}
		}
		if flags.Changed("deadline") {
			if strings.EqualFold(*deadline, "null") {
				req.ClearDeadline = true
			} else {
				d, err := civil.ParseDate(*deadline)
				if err != nil {
					return fmt.Errorf("--deadline: %w", err)
				}
				req.Deadline = &d
			}
		}
		task, err := client.Update(ctx, *id, req)
		if err != nil {
			return err
		}
		return printTasks(out, []taskclient.Task{*task}, *asJSON)

	case "delete":
		if *id == "" {
			return errors.New("--id is required")
		}
		if err := client.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintln(out, "deleted", *id)
		return nil

	case "health":
		return checkHealth(ctx, out, *grpcAddr)

	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func checkHealth(ctx context.Context, out io.Writer, addr string) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	fmt.Fprintln(out, resp.GetStatus().String())
	return nil
}

func printTasks(out io.Writer, tasks []taskclient.Task, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tDEADLINE\tURGENCY")
	for _, t := range tasks {
		priority, deadline := "-", "-"
		if t.Priority != nil {
			priority = *t.Priority
		}
		if t.Deadline != nil {
			deadline = t.Deadline.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Status, priority, deadline, t.Urgency)
	}
	return tw.Flush()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
