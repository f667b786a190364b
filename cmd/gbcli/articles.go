package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guidebook-kb/guidebook/storage"
	"github.com/guidebook-kb/guidebook/storage/model"
)

var searchCmd = &cobra.Command{
	Use:   "search [TERM]",
	Short: "Search the articles",
	Long:  "Search the articles; without a term all articles are listed",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSearch,
}

var addArticleCmd = &cobra.Command{
	Use:   "add-article",
	Short: "Add a new article",
	Args:  cobra.NoArgs,
	RunE:  runAddArticle,
}

var (
	articleTitle    string
	articleCategory string
	articleContent  string
	articleKeywords []string
)

func init() {
	f := addArticleCmd.Flags()
	f.StringVarP(&articleTitle, "title", "t", "", "the title of the article")
	f.StringVar(&articleCategory, "category", "", "the category of the article")
	f.StringVar(&articleContent, "content", "", "the content of the article")
	f.StringSliceVarP(&articleKeywords, "keyword", "k", nil, "keywords of the article, can be given multiple times")
}

func runSearch(cmd *cobra.Command, args []string) error {
	var term string
	if len(args) > 0 {
		term = args[0]
	}
	results, err := storage.SearchArticles(backends.Articles, term)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, a := range results {
		_, err = fmt.Fprintf(out, "[%s] %s\n", a.Category, a.Title)
		if err != nil {
			return err
		}
		if len(a.Keywords) > 0 {
			if _, err = fmt.Fprintf(out, "  keywords: %s\n", strings.Join(a.Keywords, ", ")); err != nil {
				return err
			}
		}
	}
	return nil
}

func runAddArticle(cmd *cobra.Command, _ []string) error {
	article, err := model.NewArticle(articleTitle, articleCategory, articleContent, articleKeywords)
	if err != nil {
		return err
	}
	if err = backends.Articles.Add(article); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added article '%s'\n", article.Title)
	return err
}
