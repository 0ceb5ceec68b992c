package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/tool"
	"github.com/tbxark/formfill"
	"github.com/tbxark/formfill/schema"
	"github.com/tbxark/formfill/tools"
	"github.com/tbxark/formfill/types"
)

func main() {
	conf := flag.String("config", "config.yaml", "path to config file")
	script := flag.String("script", "script.yaml", "path to the scripted tool calls")
	flag.Parse()
	config, err := formfill.LoadConfig(*conf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	steps, err := loadScript(*script)
	if err != nil {
		log.Fatalf("load script: %v", err)
	}
	err = startApp(context.Background(), config, steps)
	if err != nil {
		log.Fatalf("start app: %v", err)
	}
}

func startApp(ctx context.Context, config *formfill.Config, script *Script) error {
	opts, err := config.Options()
	if err != nil {
		return err
	}
	form := formfill.New(invoiceCatalog, opts...)
	list, err := tools.New(form)
	if err != nil {
		return err
	}
	infos, err := tools.Infos(ctx, list)
	if err != nil {
		return err
	}
	byName := make(map[string]tool.InvokableTool, len(list))
	for i, info := range infos {
		byName[info.Name] = list[i]
	}

	for _, step := range script.Steps {
		t, ok := byName[step.Tool]
		if !ok {
			return fmt.Errorf("unknown tool %q", step.Tool)
		}
		args, err := sonic.MarshalString(step.Args)
		if err != nil {
			return fmt.Errorf("encode arguments of %s: %w", step.Tool, err)
		}
		out, err := t.InvokableRun(ctx, args)
		if err != nil {
			return fmt.Errorf("run %s: %w", step.Tool, err)
		}
		slog.Debug("Tool call", "tool", step.Tool, "args", args)
		fmt.Printf("%s %s\n  -> %s\n", step.Tool, args, out)
	}

	fmt.Printf("\n%s\n", summary(form.Data()))
	if missing := form.Missing(); len(missing) > 0 {
		fmt.Printf("\nMissing fields:\n%s", types.FormatFields(missing))
	}
	if errs := form.Validate(); len(errs) > 0 {
		fmt.Printf("\nValidation errors:\n%s", types.FormatErrors(errs))
	}

	s, err := schema.CompileCatalog(invoiceCatalog, "Invoice")
	if err != nil {
		return err
	}
	if err := s.ValidateValue(form.Data()); err != nil {
		fmt.Printf("\n%v\n", err)
	}
	changes, err := sonic.MarshalIndent(form.Changes(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("\nChanges:\n%s\n", changes)
	return nil
}
