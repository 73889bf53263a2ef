package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/locvowork/isms_status_exporter/internal/domain"
)

type DataSeeder struct {
	writer domain.RecordWriter
	rng    *rand.Rand
}

// NewDataSeeder creates a seeder writing through w. Equal seeds generate
// equal records.
func NewDataSeeder(w domain.RecordWriter, seed int64) *DataSeeder {
	return &DataSeeder{writer: w, rng: rand.New(rand.NewSource(seed))}
}

var (
	policyDocs = []string{"정보보호 정책서.docx", "개인정보 처리방침.docx", "접근통제 지침.docx", "백업 및 복구 절차.docx", "위험관리 지침.docx", "보안교육 계획.xlsx"}
	policyDirs = []string{"/ISMS/정책", "/ISMS/지침", "/ISMS/절차"}
	contents   = []string{"정책 수립 및 승인 완료", "연 1회 이상 검토", "담당자 지정 및 역할 정의", "None", "접근권한 검토 주기 수립", "외부 위탁업체 관리 기준 마련"}
	evidences  = []string{"접근권한 검토 결과.pdf", "교육 이수 현황.xlsx", "백업 로그.csv", "취약점 점검 보고서.pdf", "none", "회의록.docx"}
	reasons    = []string{"결재 서명 누락", "검토 일자 불명확", "최신 개정본 아님", "None", "담당자 확인 필요", "증적 범위 부족"}
)

// SeedPreset selects how many controls are generated.
type SeedPreset string

const (
	PresetSmall  SeedPreset = "small"
	PresetMedium SeedPreset = "medium"
	PresetLarge  SeedPreset = "large"
)

// ControlIdentifiers lists the generated ISMS identifiers in template order:
// sections 1.x then 2.x, each with itemsPerSection controls.
func ControlIdentifiers(sections, itemsPerSection int) []string {
	var ids []string
	for top := 1; top <= 2; top++ {
		for s := 1; s <= sections; s++ {
			for i := 1; i <= itemsPerSection; i++ {
				ids = append(ids, fmt.Sprintf("%d.%d.%d", top, s, i))
			}
		}
	}
	return ids
}

// GenerateRecords produces policy and evidence records for ids. A few records
// carry "None" values, padded identifiers and missing identifiers so the
// export's filtering is exercised.
func (ds *DataSeeder) GenerateRecords(ids []string) ([]domain.RawPolicyRecord, []domain.RawEvidenceRecord) {
	var policies []domain.RawPolicyRecord
	var evs []domain.RawEvidenceRecord

	for _, id := range ids {
		for n := ds.rng.Intn(3); n > 0; n-- {
			policies = append(policies, domain.RawPolicyRecord{
				ISMSID:   ds.maybePad(id),
				Content:  pick(ds.rng, contents),
				FullPath: pick(ds.rng, policyDirs) + "/" + pick(ds.rng, policyDocs),
			})
		}
		for n := ds.rng.Intn(3); n > 0; n-- {
			rec := domain.RawEvidenceRecord{
				ISMSItem: ds.maybePad(id),
				FileName: pick(ds.rng, evidences),
			}
			for r := ds.rng.Intn(4); r > 0; r-- {
				rec.Reasons = append(rec.Reasons, pick(ds.rng, reasons))
			}
			evs = append(evs, rec)
		}
	}

	// Records without identifiers are skipped by the export.
	policies = append(policies, domain.RawPolicyRecord{Content: "미분류 문서", FullPath: "/ISMS/기타/unassigned.docx"})
	evs = append(evs, domain.RawEvidenceRecord{FileName: "orphan.pdf", Reasons: []string{"항목 미지정"}})

	return policies, evs
}

func (ds *DataSeeder) maybePad(id string) string {
	if ds.rng.Intn(10) == 0 {
		return " " + id + " "
	}
	return id
}

func pick(rng *rand.Rand, items []string) string {
	return items[rng.Intn(len(items))]
}

// SeedData generates and stores records for ids.
func (ds *DataSeeder) SeedData(ctx context.Context, ids []string) error {
	start := time.Now()
	fmt.Println("🚀 Seeding data...")

	policies, evs := ds.GenerateRecords(ids)

	if err := ds.writer.SavePolicies(ctx, policies); err != nil {
		return fmt.Errorf("failed to insert policy records: %w", err)
	}
	fmt.Printf("✅ Created %d policy records\n", len(policies))

	if err := ds.writer.SaveEvidence(ctx, evs); err != nil {
		return fmt.Errorf("failed to insert evidence records: %w", err)
	}
	fmt.Printf("✅ Created %d evidence records\n", len(evs))

	fmt.Printf("🎉 Done in %v\n", time.Since(start))
	return nil
}

func (ds *DataSeeder) ClearData(ctx context.Context) error {
	fmt.Println("🗑️  Clearing data...")
	if err := ds.writer.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	fmt.Println("✅ Cleared records")
	return nil
}

// GetPresetConfig returns configuration for a preset
func GetPresetConfig(preset SeedPreset) (sections, itemsPerSection int) {
	switch preset {
	case PresetSmall:
		return 2, 3
	case PresetMedium:
		return 4, 5
	case PresetLarge:
		return 12, 8
	default:
		return 4, 5
	}
}
