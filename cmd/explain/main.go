// Package main provides a CLI that prints the statements a list request
// would run, without touching a database.
// Usage: explain plan companies page=2 size=5 name__like=acme --dialect sqlite
//        explain schema vehicle_trips
//        explain resources
package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"crudcenter/internal/domain/paging"
	"crudcenter/internal/domain/query"
	"crudcenter/internal/domain/resource"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		printUsage(out)
		return fmt.Errorf("no command given")
	}

	reg, err := resource.Builtin()
	if err != nil {
		return err
	}

	switch args[0] {
	case "resources":
		for _, name := range reg.Names() {
			res, _ := reg.Get(name)
			fmt.Fprintf(out, "%-16s %-16s %s\n", res.Name, res.Connection, res.Table)
		}
		return nil
	case "schema":
		if len(args) < 2 {
			return fmt.Errorf("usage: explain schema <resource>")
		}
		return printSchema(out, reg, args[1])
	case "plan":
		if len(args) < 2 {
			return fmt.Errorf("usage: explain plan <resource> [key=value ...] [--dialect name] [--strict] [--literal]")
		}
		return plan(out, reg, args[1], args[2:])
	case "help", "--help", "-h":
		printUsage(out)
		return nil
	default:
		printUsage(out)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, `crudcenter statement explainer

Usage:
  explain <command> [options]

Commands:
  resources   List registered resources
  schema      Show filterable fields of a resource
  plan        Print count and data statements for a list request
  help        Show this help

Plan parameters are the list query parameters as key=value pairs:
  page, size, order_by, search, fields and field__op filters.

Examples:
  explain plan companies page=2 size=5 name__like=acme search=co order_by=-created_at
  explain plan vehicle_trips status__in=moving,charging electric=true
  explain plan accounts name=smith --dialect sqlite --strict
  explain plan companies industry__isnull=true --literal`)
}

func printSchema(out io.Writer, reg *resource.Registry, name string) error {
	res, err := reg.Get(name)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%s, table %s)\n", res.Name, res.Connection, res.Table)
	for _, f := range res.Schema.Fields() {
		ops := make([]string, len(f.Operators))
		for i, op := range f.Operators {
			ops[i] = string(op)
		}
		line := fmt.Sprintf("  %-14s %-9s %s", f.Name, f.Type, strings.Join(ops, ","))
		if len(f.EnumValues) > 0 {
			line += " [" + strings.Join(f.EnumValues, "|") + "]"
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "  order: %s (default %s)\n", strings.Join(res.OrderFields, ","), strings.Join(res.DefaultOrder, ","))
	fmt.Fprintf(out, "  search: %s\n", strings.Join(res.SearchFields, ","))
	return nil
}

func plan(out io.Writer, reg *resource.Registry, name string, args []string) error {
	res, err := reg.Get(name)
	if err != nil {
		return err
	}

	dialect := defaultDialect(res.Connection)
	mode := paging.Lenient
	literal := false
	q := url.Values{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--dialect":
			if i+1 >= len(args) {
				return fmt.Errorf("--dialect needs a value")
			}
			d, ok := query.DialectByName(args[i+1])
			if !ok {
				return fmt.Errorf("unknown dialect %q", args[i+1])
			}
			dialect = d
			i++
		case "--strict":
			mode = paging.Strict
		case "--literal":
			literal = true
		default:
			key, value, ok := strings.Cut(args[i], "=")
			if !ok {
				return fmt.Errorf("expected key=value, got %q", args[i])
			}
			q.Add(key, value)
		}
	}

	params, err := listParams(res, q)
	if err != nil {
		return err
	}
	req, err := res.Request(params, mode)
	if err != nil {
		return err
	}

	if literal {
		text, err := req.Where.WithSearch(req.Search).Literal()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return nil
	}

	p, err := query.Build(dialect, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "-- dialect: %s, order mode: %s\n", dialect.Name, mode)
	fmt.Fprintf(out, "%s;\n", p.Count.SQL)
	printArgs(out, p.Count.Args)
	fmt.Fprintf(out, "%s;\n", p.Data.SQL)
	printArgs(out, p.Data.Args)
	return nil
}

func listParams(res *resource.Resource, q url.Values) (resource.ListParams, error) {
	p := resource.ListParams{
		Page:    1,
		Size:    10,
		OrderBy: paging.SplitTokens(q["order_by"]...),
		Search:  q.Get("search"),
		Fields:  paging.SplitTokens(q["fields"]...),
	}
	for key, dst := range map[string]*int{"page": &p.Page, "size": &p.Size} {
		if v := q.Get(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return p, fmt.Errorf("%s must be an integer, got %q", key, v)
			}
			*dst = n
		}
	}

	filters, err := res.Schema.ParseQuery(q)
	if err != nil {
		return p, err
	}
	p.Filters = filters
	return p, nil
}

func defaultDialect(connection string) query.Dialect {
	if connection == resource.AssetAnalytics {
		return query.ClickHouse
	}
	return query.Postgres
}

func printArgs(out io.Writer, args []any) {
	if len(args) == 0 {
		return
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("$%d=%v", i+1, a)
	}
	fmt.Fprintf(out, "-- args: %s\n", strings.Join(parts, " "))
}
