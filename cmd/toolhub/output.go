package main

import (
	"encoding/json"
	"fmt"

	"toolhub/internal/domain"
)

func writeJSON(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printTools(tools []domain.Tool, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(tools)
	}
	for _, tool := range tools {
		base := tool.Base()
		fmt.Printf("%-28s %-14s %-8s %s\n", base.ID, base.Category, tool.ToolType(), base.Title)
	}
	fmt.Printf("%d tool(s)\n", len(tools))
	return nil
}

func printTool(tool domain.Tool, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(tool)
	}
	base := tool.Base()
	fmt.Printf("id:          %s\n", base.ID)
	fmt.Printf("type:        %s\n", tool.ToolType())
	fmt.Printf("title:       %s\n", base.Title)
	fmt.Printf("category:    %s\n", base.Category)
	fmt.Printf("tags:        %v\n", base.Tags)
	fmt.Printf("runtime:     %s\n", base.Runtime)
	fmt.Printf("status:      %s\n", base.Status)
	fmt.Printf("version:     %s\n", base.Version)
	fmt.Printf("description: %s\n", base.Description)
	if public, ok := tool.(domain.PublicTool); ok {
		fmt.Printf("author:      %s\n", public.Author)
		fmt.Printf("file:        %s\n", public.File)
	}
	return nil
}
