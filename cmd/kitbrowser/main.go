// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command kitbrowser is a terminal browser for the kit catalog. It drives
// the list-session controller against a running API server: debounced
// search, filters, pagination and (with an admin token) row deletion.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/gunplahub/api/internal/listsession"
	"github.com/gunplahub/api/internal/types"
)

type kitRow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Grade *struct {
		Code string `json:"code"`
	} `json:"grade"`
	PriceKRW *int64 `json:"priceKrw"`
}

type listEnvelope struct {
	Data       []kitRow `json:"data"`
	Pagination struct {
		Total      int64 `json:"total"`
		TotalPages int   `json:"totalPages"`
	} `json:"pagination"`
}

// apiFetcher implements listsession.Fetcher over the public list endpoint.
type apiFetcher struct {
	baseURL string
	client  *http.Client
}

func (f *apiFetcher) FetchPage(ctx context.Context, q listsession.Query) (*listsession.Result, error) {
	params := url.Values{}
	if q.SearchTerm != "" {
		params.Set("search", q.SearchTerm)
	}
	for key, values := range q.Filters {
		params.Set(key, strings.Join(values, ","))
	}
	if q.SortField != "" {
		params.Set("sortBy", q.SortField)
		if q.SortDescending {
			params.Set("sortOrder", "desc")
		} else {
			params.Set("sortOrder", "asc")
		}
	}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.PageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		f.baseURL+"/kits?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list request failed: %s", resp.Status)
	}

	var envelope listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}

	rows := make([]interface{}, len(envelope.Data))
	for i, row := range envelope.Data {
		rows[i] = row
	}
	return &listsession.Result{
		Rows:       rows,
		TotalCount: envelope.Pagination.Total,
		TotalPages: envelope.Pagination.TotalPages,
	}, nil
}

// apiDeleter implements listsession.Deleter over the admin CRUD endpoint.
type apiDeleter struct {
	baseURL string
	token   string
	client  *http.Client
}

func (d *apiDeleter) DeleteRow(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		d.baseURL+"/admin/kits/"+id, nil)
	if err != nil {
		return err
	}
	req.Header.Set(types.HeaderAuthorization, types.BearerPrefix+d.token)

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete failed: %s", resp.Status)
	}
	return nil
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	errColor    = color.New(color.FgRed)
	dimColor    = color.New(color.Faint)
)

func render(state listsession.State) {
	switch state.Phase {
	case listsession.PhaseLoading:
		dimColor.Println("loading...")
		return
	case listsession.PhaseErrored:
		errColor.Printf("error: %v\n", state.Err)
		return
	}

	headerColor.Printf("page %d/%d  (%d kits", state.Page, state.TotalPages, state.TotalCount)
	if state.SearchCommitted != "" {
		headerColor.Printf(", search %q", state.SearchCommitted)
	}
	headerColor.Println(")")

	for _, raw := range state.Rows {
		row, ok := raw.(kitRow)
		if !ok {
			continue
		}
		grade := "--"
		if row.Grade != nil {
			grade = row.Grade.Code
		}
		price := "     --"
		if row.PriceKRW != nil {
			price = fmt.Sprintf("%7d", *row.PriceKRW)
		}
		fmt.Printf("  %6d  %-4s  %s KRW  %s\n", row.ID, grade, price, row.Name)
	}
}

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "API base URL")
	limit := flag.Int("limit", 20, "page size")
	token := flag.String("token", os.Getenv("GUNPLAHUB_ADMIN_TOKEN"), "admin session token for delete")
	flag.Parse()

	client := &http.Client{Timeout: 20 * time.Second}

	var deleter listsession.Deleter
	if *token != "" {
		deleter = &apiDeleter{baseURL: *apiURL, token: *token, client: client}
	}

	controller := listsession.NewController(
		&apiFetcher{baseURL: *apiURL, client: client},
		deleter,
		listsession.Options{
			PageSize: *limit,
			OnChange: render,
		},
	)
	defer controller.Close()
	controller.Start()

	dimColor.Println("commands: <text> search | n/p page | page N | sort FIELD [desc] | filter KEY [V1,V2] | delete ID | refresh | q")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			controller.SetSearchDraft("")
			controller.SubmitSearch()
			continue
		}

		switch fields[0] {
		case "q", "quit":
			return
		case "n":
			controller.SetPage(controller.Snapshot().Page + 1)
		case "p":
			controller.SetPage(controller.Snapshot().Page - 1)
		case "page":
			if len(fields) == 2 {
				if page, err := strconv.Atoi(fields[1]); err == nil {
					controller.SetPage(page)
				}
			}
		case "sort":
			if len(fields) >= 2 {
				controller.SetSort(fields[1], len(fields) > 2 && fields[2] == "desc")
			}
		case "filter":
			switch len(fields) {
			case 2:
				controller.SetFilter(fields[1])
			case 3:
				controller.SetFilter(fields[1], strings.Split(fields[2], ",")...)
			}
		case "delete":
			if len(fields) == 2 {
				if err := controller.Delete(context.Background(), fields[1]); err != nil {
					errColor.Printf("delete: %v\n", err)
				}
			}
		case "refresh":
			controller.Refresh()
		default:
			controller.SetSearchDraft(line)
			controller.SubmitSearch()
		}
	}
}
