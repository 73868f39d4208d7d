package cmd

import (
	"fmt"
	"os"

	"github.com/frahmantamala/finance-tracker/internal/category"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List, add, update, and delete the income and expense categories stored remotely.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			st, _, err := openState()
			if err != nil {
				return err
			}

			categories, err := st.Categories.Refresh(ctx)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(mutedStyle.Render("No categories found. Use 'finance-tracker categories add' to create one."))
				return nil
			}

			w := newTable(os.Stdout)
			defer w.Flush()

			writeHeader(w, "ID", "Name", "Type")
			for _, c := range categories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, c.Type)
			}
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var categoryType string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			st, _, err := openState()
			if err != nil {
				return err
			}

			created, err := st.Categories.Add(ctx, args[0], category.CategoryType(categoryType))
			if err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}

			fmt.Println(successStyle.Render(fmt.Sprintf("Created category %q (%s) with id %s", created.Name, created.Type, created.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryType, "type", "t", string(category.TypeExpense), "category type (income or expense)")
	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		name         string
		categoryType string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a category or change its type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			st, _, err := openState()
			if err != nil {
				return err
			}

			if _, err := st.Categories.Refresh(ctx); err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			current, ok := st.Categories.Find(args[0])
			if !ok {
				return fmt.Errorf("category %s not found", args[0])
			}

			if !cmd.Flags().Changed("name") {
				name = current.Name
			}
			if !cmd.Flags().Changed("type") {
				categoryType = string(current.Type)
			}

			updated, err := st.Categories.Update(ctx, current.ID, name, category.CategoryType(categoryType))
			if err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}

			fmt.Println(successStyle.Render(fmt.Sprintf("Updated category %s: %q (%s)", updated.ID, updated.Name, updated.Type)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "new category name")
	cmd.Flags().StringVarP(&categoryType, "type", "t", "", "new category type (income or expense)")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Delete a category. Transactions that reference it are kept and show as Unknown.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			st, _, err := openState()
			if err != nil {
				return err
			}

			id, err := st.Categories.Remove(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Println(successStyle.Render(fmt.Sprintf("Deleted category %s", id)))
			return nil
		},
	}
}
