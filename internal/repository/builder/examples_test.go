package builder_test

import (
	"fmt"

	"github.com/locvowork/isms_status_exporter/internal/repository/builder"
)

func Example_select() {
	sql, args := builder.NewSQLBuilder().
		Select("isms_item", "file_name", "reasons").
		From("isms_evidence_metadata").
		Where("isms_item = ?", "2.1.1").
		OrderBy("id").
		Build()

	fmt.Println("SQL:", sql)
	fmt.Printf("Args: %v\n", args)

	// Output:
	// SQL: SELECT isms_item, file_name, reasons FROM isms_evidence_metadata WHERE isms_item = $1 ORDER BY id
	// Args: [2.1.1]
}

func Example_batchInsert() {
	sql, args := builder.NewSQLBuilder().
		Insert("isms_policy_selection", "isms_id", "content", "full_path").
		Values("1.1.1", "정책", "/p/a.docx").
		Values("1.1.2", "None", "").
		Build()

	fmt.Println("SQL:", sql)
	fmt.Println("Args:", len(args))

	// Output:
	// SQL: INSERT INTO isms_policy_selection (isms_id, content, full_path) VALUES ($1, $2, $3), ($4, $5, $6)
	// Args: 6
}
