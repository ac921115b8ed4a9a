package mcpserver

// DatasetFormatContract describes the dataset document layout that LLM
// consumers should follow when importing a dataset.
const DatasetFormatContract = `# Herbscope Dataset Format Contract

A dataset is one YAML or JSON document with two top-level lists.

## Structure

` + "```" + `yaml
herbs:
  - name: Shichangpu          # REQUIRED, unique, Latin script
    alias: 石菖蒲              # OPTIONAL, unique across names and aliases
    frequency: 560            # REQUIRED, integer >= 0
    category: opening-orifices
    nature: warm
    flavor: pungent
    meridian: heart
    dose: 12                  # grams, > 0
    era: song
    molecular: {weight: 208, logp: 3.2, ob: 85}
relations:
  - {source: Shichangpu, target: Yujin, weight: 8}
` + "```" + `

## Rules

1. **name** and **frequency** are required. Every other herb field has a default:
   category unknown, nature neutral, flavor sweet, meridian liver, dose 10,
   era contemporary, molecular weight 300, logp 2.5, ob 50.
2. **Categorical values** are kebab-case tags. Chinese labels are accepted too
   (e.g. ` + "`" + `温` + "`" + ` for warm, ` + "`" + `肝经` + "`" + ` for liver).
   - category: opening-orifices, wind-extinguishing, blood-activating, qi-tonifying,
     heat-clearing, phlegm-resolving, calming, unknown
   - nature: warm, neutral, cold, cool, hot
   - flavor: pungent, bitter, sweet, sour, salty
   - meridian: liver, heart, spleen, lung, kidney, stomach
   - era: han, tang, song, jin-yuan, ming, qing, contemporary
3. **ob** (oral bioavailability) is a percentage in 0..100; weight and dose are positive.
4. **Relations** reference herbs by name or alias. Self-loops are rejected.
   weight is an integer >= 1 and defaults to 1.
5. **Repeated pairs** are kept as separate co-occurrence events; do not merge them.
6. **Unknown keys** are rejected.
7. **Encoding** is UTF-8.

## Importing

- Call ` + "`" + `import_dataset` + "`" + ` with the document in ` + "`" + `content` + "`" + `, or with ` + "`" + `url` + "`" + ` set to an
  http(s) location or a ` + "`" + `data:application/yaml;base64,...` + "`" + ` URI.
- A rejected document leaves the live dataset unchanged.
`
