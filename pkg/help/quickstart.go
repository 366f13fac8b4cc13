package help

const QuickstartYAML = `# finchunk Quick Start

inputs:
  mime: "Saved web archives (.mht / MIME-Version header); the text/html part is used"
  html: "Filing pages such as SEC 10-K documents"
  pdf: "Annual reports; text is rebuilt from glyph positions, at most 100 pages by default"
  text: "Already flattened text, used as is"

commands:
  normalize: |
    finchunk normalize filing.mht

  pdf_pages: |
    finchunk pdf annual-report.pdf --pages 40-75

  locate: |
    finchunk locate --period 2024-FY annual-report.pdf https://example.com/10k.htm

  locate_yaml: |
    finchunk locate --period 2024-FY --format yaml --workers 8 reports/*.pdf

  list_runs: |
    finchunk runs --limit 20

  run_details: |
    finchunk run            # latest run
    finchunk run <run_id>

key_files:
  - "finchunk-results/<run_id>.json (located chunks, metrics, metadata)"
  - "finchunk-results/summary-YYYY-MM-DD.json (batch overview)"
  - "finchunk-results/cache/ (flat text, keyed by content and page range)"
  - "finchunk.db (run store, next to the binary unless --db is given)"

language_selection:
  - "English indicators are scanned first"
  - "If any statement has fewer than 15 distinct English indicators in its best window, all three are rescanned in Spanish"
  - "Indicator matching ignores case and accents"

config_override: |
  # indicators.yaml, passed with --config
  settings:
    window_size: 3000
    overlap_stride: 500
    buffer_size: 500
    output_chunk_size: 8000
  indicators:
    balance:
      en: ["total assets", "total liabilities"]
      es: ["total activo", "total pasivo"]

environment:
  - "FINCHUNK_PERIOD, FINCHUNK_WORKERS, FINCHUNK_FORMAT, FINCHUNK_OUTPUT_DIR"
  - "FINCHUNK_CONFIG, FINCHUNK_MAX_AGE, FINCHUNK_DB, FINCHUNK_QUIET, FINCHUNK_VERBOSE"
  - "A .env file in the working directory is loaded first"

error_behavior:
  - "Malformed URLs: fail fast before anything is read"
  - "Per-document errors: recorded as failed runs and in the summary"
  - "Exit codes: 0=success, 1=one or more documents failed, 2=bad flags"
`
