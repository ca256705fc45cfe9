package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// QueryFile is the generated Power Query import script.
const QueryFile = "importacao.m"

const queryTemplate = `let
    caminho_base = "%s",

    FonteFato = Csv.Document(
        File.Contents(caminho_base & "/%s"),
        [Delimiter=",", Encoding=65001, QuoteStyle=QuoteStyle.Csv]
    ),
    FatoHeaders = Table.PromoteHeaders(FonteFato, [PromoteAllScalars=true]),

    Produtos = Csv.Document(
        File.Contents(caminho_base & "/%s"),
        [Delimiter=",", Encoding=65001]
    ),
    ProdutosHeaders = Table.PromoteHeaders(Produtos, [PromoteAllScalars=true]),

    Clientes = Csv.Document(
        File.Contents(caminho_base & "/%s"),
        [Delimiter=",", Encoding=65001]
    ),
    ClientesHeaders = Table.PromoteHeaders(Clientes, [PromoteAllScalars=true]),

    Tempo = Csv.Document(
        File.Contents(caminho_base & "/%s"),
        [Delimiter=",", Encoding=65001]
    ),
    TempoHeaders = Table.PromoteHeaders(Tempo, [PromoteAllScalars=true]),

    ModeloEstrela =
        Table.NestedJoin(
            FatoHeaders, "PRODUCT_ID",
            ProdutosHeaders, "PRODUCT_ID",
            "Produtos", JoinKind.LeftOuter
        )
in
    ModeloEstrela
`

// PowerQueryM renders the import script for a given export directory.
// The path is embedded absolute so the script works from anywhere.
func PowerQueryM(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve export dir: %w", err)
	}
	abs = strings.ReplaceAll(abs, `\`, `\\`)
	return fmt.Sprintf(queryTemplate, abs, FactFile, ProductsFile, CustomersFile, TimeFile), nil
}

// WritePowerQuery writes the script next to the exported CSVs.
func WritePowerQuery(dir string) error {
	script, err := PowerQueryM(dir)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, QueryFile), []byte(script), 0o644); err != nil {
		return fmt.Errorf("write query: %w", err)
	}
	return nil
}
