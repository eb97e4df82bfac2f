/*
Copyright © 2026 rmpdb authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/edstats/rmpdb/internal/ioread"
	"github.com/edstats/rmpdb/pkg/pipeline"
	"github.com/edstats/rmpdb/pkg/rmp"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getPreviewCmd returns the preview command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getPreviewCmd() *cobra.Command {
	var (
		rows           int
		reviewsDir     string
		professorsFile string
	)

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Run the pipeline and print table heads without persisting",
		Long: `Run the full cleaning pipeline and print the head of every
output table plus summary counts. Nothing is written to any database
or to the error log; use it to sanity-check the raw data before
'rmpdb populate'.

Examples:
  rmpdb preview
  rmpdb preview --rows 10
  rmpdb preview -r ./raw_data_rmp/teachers_comments`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPreview(cmd, rows)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	previewCmd.Flags().IntVar(
		&rows, "rows", 5,
		"number of head rows to print per table",
	)
	previewCmd.Flags().StringVarP(
		&reviewsDir, "reviews-dir", "r", "",
		"root of the review tree (one directory per department)",
	)
	previewCmd.Flags().StringVarP(
		&professorsFile, "professors-file", "p", "",
		"path to the professor directory JSON document",
	)

	return previewCmd
}

func runPreview(cmd *cobra.Command, rows int) error {
	ctx := context.Background()

	applyIngestFlags(cmd)

	reader := ioread.New(cfg)
	var errs rmp.Collector

	ds, err := pipeline.Build(ctx, reader, &errs)
	if err != nil {
		return err
	}

	printTeachers(ds, rows)
	printCourses(ds, rows)
	printTagCounts(ds, rows)
	printCourseTagCounts(ds, rows)
	printReviews(ds, rows)

	fmt.Println()
	if errs.Len() > 0 {
		gn.Warn("Skipped records: <em>%d</em> (not logged in preview)",
			errs.Len())
	}

	return nil
}

func tableHeader(name string, count int) {
	fmt.Printf("\n== %s (%s rows) ==\n",
		name, humanize.Comma(int64(count)))
}

func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func printTeachers(ds *rmp.Dataset, rows int) {
	tableHeader("teachers", len(ds.Teachers))
	w := newTabWriter()
	fmt.Fprintln(w,
		"teacher_id\tname\tdepartment\tavg_rating\tnum_ratings")
	for i, t := range ds.Teachers {
		if i >= rows {
			break
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.TeacherID, t.Name, t.Department,
			fmtFloat(t.AvgRating), fmtInt32(t.NumRatings))
	}
	w.Flush()
}

func printCourses(ds *rmp.Dataset, rows int) {
	tableHeader("teacher_courses", len(ds.Courses))
	w := newTabWriter()
	fmt.Fprintln(w,
		"teacher_id\tclass_code\tn_ratings\tavg_clarity\t"+
			"avg_difficulty\twould_take_again_rate")
	for i, c := range ds.Courses {
		if i >= rows {
			break
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			c.TeacherID, c.ClassCode, c.NRatings,
			fmtFloat(c.AvgClarity), fmtFloat(c.AvgDifficulty),
			fmtFloat(c.WouldTakeAgainRate))
	}
	w.Flush()
}

func printTagCounts(ds *rmp.Dataset, rows int) {
	tableHeader("teacher_tag_counts", len(ds.TagCounts))
	w := newTabWriter()
	fmt.Fprintln(w, "teacher_id\ttag\tn")
	for i, c := range ds.TagCounts {
		if i >= rows {
			break
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", c.TeacherID, c.Tag, c.N)
	}
	w.Flush()
}

func printCourseTagCounts(ds *rmp.Dataset, rows int) {
	tableHeader("teacher_course_tag_counts", len(ds.CourseTagCounts))
	w := newTabWriter()
	fmt.Fprintln(w, "teacher_id\tclass_code\ttag\tn")
	for i, c := range ds.CourseTagCounts {
		if i >= rows {
			break
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			c.TeacherID, c.ClassCode, c.Tag, c.N)
	}
	w.Flush()
}

func printReviews(ds *rmp.Dataset, rows int) {
	tableHeader("ratings_raw", len(ds.Reviews))
	w := newTabWriter()
	fmt.Fprintln(w,
		"teacher_id\tclass\tclarity_rating\twould_take_again\tsource_file")
	for i := range ds.Reviews {
		if i >= rows {
			break
		}
		r := &ds.Reviews[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.TeacherID, nullStr(r.Class),
			fmtFloat(r.ClarityRating), r.WouldTakeAgain.String(),
			r.SourceFile)
	}
	w.Flush()
}

func fmtFloat(v sql.NullFloat64) string {
	if !v.Valid {
		return "NULL"
	}
	return fmt.Sprintf("%.2f", v.Float64)
}

func fmtInt32(v sql.NullInt32) string {
	if !v.Valid {
		return "NULL"
	}
	return fmt.Sprintf("%d", v.Int32)
}

func nullStr(v sql.NullString) string {
	if !v.Valid {
		return "NULL"
	}
	return v.String
}
