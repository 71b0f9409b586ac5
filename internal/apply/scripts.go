package apply

import "fmt"

// JavaScript evaluated inside the Easy Apply modal. Each snippet is a single
// expression returning a JSON-serializable value.

func elementExistsJS(selector string) string {
	return fmt.Sprintf(`document.querySelector(%q) !== null`, selector)
}

func elementTextJS(selector string) string {
	return fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		return el ? el.innerText : "";
	})()`, selector)
}

// fillDefaultsJS fills empty recognized fields: phone, city, yes radios,
// first non-empty select options and numeric experience inputs. Returns
// {filled, answered} where answered counts radios and selects, the fields
// where a default can be a wrong answer.
func fillDefaultsJS(phone, city string, experienceYears int) string {
	return fmt.Sprintf(`(() => {
		let filled = 0;
		let answered = 0;
		const setValue = (el, value) => {
			el.value = value;
			el.dispatchEvent(new Event("input", { bubbles: true }));
			el.dispatchEvent(new Event("change", { bubbles: true }));
			filled++;
		};

		const phone = document.querySelector("input[id*='phone'], input[name*='phone']");
		if (phone && !phone.value && %[1]q) setValue(phone, %[1]q);

		const city = document.querySelector("input[id*='city'], input[name*='location']");
		if (city && !city.value && %[2]q) setValue(city, %[2]q);

		for (const radio of document.querySelectorAll("input[type='radio'][value='Yes']")) {
			if (!radio.checked) {
				radio.click();
				filled++;
				answered++;
			}
		}

		for (const select of document.querySelectorAll("select")) {
			if (select.selectedIndex > 0) continue;
			for (const option of Array.from(select.options).slice(1)) {
				if (option.value) {
					select.value = option.value;
					select.dispatchEvent(new Event("change", { bubbles: true }));
					filled++;
					answered++;
					break;
				}
			}
		}

		for (const input of document.querySelectorAll("input[type='text'][id*='year'], input[type='number']")) {
			if (!input.value) setValue(input, String(%[3]d));
		}

		return { filled: filled, answered: answered };
	})()`, phone, city, experienceYears)
}

// primaryActionLabelJS returns the label of the next/review/submit control,
// or "" when the step exposes none.
func primaryActionLabelJS() string {
	return `(() => {
		const byAria = document.querySelector(
			"button[aria-label='Continue to next step']," +
			"button[aria-label='Review your application']," +
			"button[aria-label='Submit application']"
		);
		if (byAria) return byAria.innerText || byAria.getAttribute("aria-label");
		for (const btn of document.querySelectorAll("button")) {
			const text = (btn.innerText || "").trim().toLowerCase();
			if (text === "next" || text === "review" || text === "submit") return btn.innerText;
		}
		return "";
	})()`
}

func clickPrimaryJS() string {
	return `(() => {
		const byAria = document.querySelector(
			"button[aria-label='Continue to next step']," +
			"button[aria-label='Review your application']," +
			"button[aria-label='Submit application']"
		);
		if (byAria) { byAria.click(); return true; }
		for (const btn of document.querySelectorAll("button")) {
			const text = (btn.innerText || "").trim().toLowerCase();
			if (text === "next" || text === "review" || text === "submit") { btn.click(); return true; }
		}
		return false;
	})()`
}
